package storage

import "context"

// Storage is the restaurants record store. Every method is a single statement.
type Storage interface {
	Ping(ctx context.Context) error
	Restaurant(ctx context.Context, id string) (*Data, error)
	// Restaurants returns every row ordered by ascending rating.
	Restaurants(ctx context.Context) ([]*Data, error)
	Insert(ctx context.Context, data *Data) error
	Update(ctx context.Context, data *Data) error
	Delete(ctx context.Context, id string) error
	// RatingsWithin returns the non-null ratings of the rows at most radius
	// meters away from (lat, lng).
	RatingsWithin(ctx context.Context, lat, lng, radius float64) ([]int, error)
}
