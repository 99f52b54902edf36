package storage

import (
	"github.com/jackc/pgtype"

	"github.com/cytora/melp-api/internal/restaurant"
)

// Data is a restaurants row as stored. Every column but id is nullable.
type Data struct {
	ID     string        `db:"id"`
	Rating pgtype.Int4   `db:"rating"`
	Name   pgtype.Text   `db:"name"`
	Site   pgtype.Text   `db:"site"`
	Email  pgtype.Text   `db:"email"`
	Phone  pgtype.Text   `db:"phone"`
	Street pgtype.Text   `db:"street"`
	City   pgtype.Text   `db:"city"`
	State  pgtype.Text   `db:"state"`
	Lat    pgtype.Float8 `db:"lat"`
	Lng    pgtype.Float8 `db:"lng"`
}

// FromRestaurant converts a domain record into a row, mapping nil to NULL.
func FromRestaurant(r *restaurant.Restaurant) *Data {
	d := &Data{
		ID:     r.ID,
		Rating: pgtype.Int4{Status: pgtype.Null},
		Name:   text(r.Name),
		Site:   text(r.Site),
		Email:  text(r.Email),
		Phone:  text(r.Phone),
		Street: text(r.Street),
		City:   text(r.City),
		State:  text(r.State),
		Lat:    float8(r.Lat),
		Lng:    float8(r.Lng),
	}
	if r.Rating != nil {
		d.Rating = pgtype.Int4{Int: int32(*r.Rating), Status: pgtype.Present}
	}
	return d
}

// Restaurant converts a row into a domain record.
func (d *Data) Restaurant() *restaurant.Restaurant {
	r := &restaurant.Restaurant{
		ID:     d.ID,
		Name:   textPtr(d.Name),
		Site:   textPtr(d.Site),
		Email:  textPtr(d.Email),
		Phone:  textPtr(d.Phone),
		Street: textPtr(d.Street),
		City:   textPtr(d.City),
		State:  textPtr(d.State),
		Lat:    float8Ptr(d.Lat),
		Lng:    float8Ptr(d.Lng),
	}
	if d.Rating.Status == pgtype.Present {
		rating := int(d.Rating.Int)
		r.Rating = &rating
	}
	return r
}

func text(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: *s, Status: pgtype.Present}
}

func float8(f *float64) pgtype.Float8 {
	if f == nil {
		return pgtype.Float8{Status: pgtype.Null}
	}
	return pgtype.Float8{Float: *f, Status: pgtype.Present}
}

func textPtr(t pgtype.Text) *string {
	if t.Status != pgtype.Present {
		return nil
	}
	s := t.String
	return &s
}

func float8Ptr(f pgtype.Float8) *float64 {
	if f.Status != pgtype.Present {
		return nil
	}
	v := f.Float
	return &v
}
