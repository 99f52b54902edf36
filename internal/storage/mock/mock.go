package mock

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/jackc/pgtype"

	"github.com/cytora/melp-api/internal/storage"
)

const earthRadiusMeters = 6371008.8

// StorageMock is an in-memory storage.Storage. When Err is set every call fails with it.
type StorageMock struct {
	Err error

	mu   sync.Mutex
	rows map[string]*storage.Data

	Calls []string
}

func New(rows ...*storage.Data) *StorageMock {
	s := &StorageMock{rows: map[string]*storage.Data{}}
	for _, r := range rows {
		c := *r
		s.rows[r.ID] = &c
	}
	return s
}

func (s *StorageMock) called(name string) error {
	s.Calls = append(s.Calls, name)
	return s.Err
}

// Len returns the number of stored rows.
func (s *StorageMock) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *StorageMock) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.called("Ping")
}

func (s *StorageMock) Restaurant(ctx context.Context, id string) (*storage.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.called("Restaurant"); err != nil {
		return nil, err
	}
	d, ok := s.rows[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (s *StorageMock) Restaurants(ctx context.Context) ([]*storage.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.called("Restaurants"); err != nil {
		return nil, err
	}
	out := make([]*storage.Data, 0, len(s.rows))
	for _, d := range s.rows {
		c := *d
		out = append(out, &c)
	}
	// nulls last, like postgres ascending order
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Rating, out[j].Rating
		if (a.Status == pgtype.Present) != (b.Status == pgtype.Present) {
			return a.Status == pgtype.Present
		}
		if a.Int != b.Int {
			return a.Int < b.Int
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *StorageMock) Insert(ctx context.Context, data *storage.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.called("Insert"); err != nil {
		return err
	}
	if _, ok := s.rows[data.ID]; ok {
		return storage.ErrAlreadyExists
	}
	c := *data
	s.rows[data.ID] = &c
	return nil
}

func (s *StorageMock) Update(ctx context.Context, data *storage.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.called("Update"); err != nil {
		return err
	}
	if _, ok := s.rows[data.ID]; !ok {
		return storage.ErrNotFound
	}
	c := *data
	s.rows[data.ID] = &c
	return nil
}

func (s *StorageMock) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.called("Delete"); err != nil {
		return err
	}
	if _, ok := s.rows[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *StorageMock) RatingsWithin(ctx context.Context, lat, lng, radius float64) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.called("RatingsWithin"); err != nil {
		return nil, err
	}
	var ratings []int
	for _, d := range s.rows {
		if d.Rating.Status != pgtype.Present || d.Lat.Status != pgtype.Present || d.Lng.Status != pgtype.Present {
			continue
		}
		if Distance(lat, lng, d.Lat.Float, d.Lng.Float) <= radius {
			ratings = append(ratings, int(d.Rating.Int))
		}
	}
	sort.Ints(ratings)
	return ratings, nil
}

// Distance is the haversine great-circle distance in meters. It stands in for
// the spheroidal distance computed by PostGIS.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}
