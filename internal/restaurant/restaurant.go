package restaurant

import (
	"net/url"
	"strconv"
	"strings"
)

// Restaurant is a single row of the restaurants table. Absent values are nil
// and serialise as null.
type Restaurant struct {
	ID     string   `json:"id"`
	Rating *int     `json:"rating"`
	Name   *string  `json:"name"`
	Site   *string  `json:"site"`
	Email  *string  `json:"email"`
	Phone  *string  `json:"phone"`
	Street *string  `json:"street"`
	City   *string  `json:"city"`
	State  *string  `json:"state"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

// Form is the set of client-writable fields as submitted. A nil field was not submitted.
type Form struct {
	Rating *string
	Name   *string
	Site   *string
	Email  *string
	Phone  *string
	Street *string
	City   *string
	State  *string
	Lat    *string
	Lng    *string
}

// FieldNames lists the recognised form fields. Anything else, id included, is ignored.
var FieldNames = []string{"rating", "name", "site", "email", "phone", "street", "city", "state", "lat", "lng"}

func (f *Form) field(name string) **string {
	switch name {
	case "rating":
		return &f.Rating
	case "name":
		return &f.Name
	case "site":
		return &f.Site
	case "email":
		return &f.Email
	case "phone":
		return &f.Phone
	case "street":
		return &f.Street
	case "city":
		return &f.City
	case "state":
		return &f.State
	case "lat":
		return &f.Lat
	case "lng":
		return &f.Lng
	}
	return nil
}

// FormFromValues picks the recognised fields out of submitted form values.
// The last value wins when a key is repeated.
func FormFromValues(values url.Values) Form {
	f := Form{}
	for _, name := range FieldNames {
		vs, ok := values[name]
		if !ok || len(vs) == 0 {
			continue
		}
		v := vs[len(vs)-1]
		*f.field(name) = &v
	}
	return f
}

// Values encodes the submitted fields of f. Unsubmitted fields are left out.
func (f Form) Values() url.Values {
	values := url.Values{}
	for _, name := range FieldNames {
		if v := *f.field(name); v != nil {
			values.Set(name, *v)
		}
	}
	return values
}

// FormFromRestaurant renders a stored record as form values so that it can be
// merged with a submission and re-validated.
func FormFromRestaurant(r *Restaurant) Form {
	f := Form{
		Name:   copyString(r.Name),
		Site:   copyString(r.Site),
		Email:  copyString(r.Email),
		Phone:  copyString(r.Phone),
		Street: copyString(r.Street),
		City:   copyString(r.City),
		State:  copyString(r.State),
	}
	if r.Rating != nil {
		s := strconv.Itoa(*r.Rating)
		f.Rating = &s
	}
	if r.Lat != nil {
		s := strconv.FormatFloat(*r.Lat, 'f', -1, 64)
		f.Lat = &s
	}
	if r.Lng != nil {
		s := strconv.FormatFloat(*r.Lng, 'f', -1, 64)
		f.Lng = &s
	}
	return f
}

// Merge returns f with every field submitted in over replacing the current value.
func (f Form) Merge(over Form) Form {
	merged := f
	for _, name := range FieldNames {
		if v := *over.field(name); v != nil {
			*merged.field(name) = v
		}
	}
	return merged
}

// Restaurant converts a form that passed Check into a record with the given id.
// Optional empty strings are stored as given.
func (f Form) Restaurant(id string) (*Restaurant, error) {
	r := &Restaurant{
		ID:     id,
		Name:   copyString(f.Name),
		Site:   copyString(f.Site),
		Email:  copyString(f.Email),
		Phone:  copyString(f.Phone),
		Street: copyString(f.Street),
		City:   copyString(f.City),
		State:  copyString(f.State),
	}
	if f.Rating != nil {
		rating, err := strconv.Atoi(strings.TrimSpace(*f.Rating))
		if err != nil {
			return nil, err
		}
		r.Rating = &rating
	}
	if f.Lat != nil {
		lat, err := parseFloat(*f.Lat)
		if err != nil {
			return nil, err
		}
		r.Lat = &lat
	}
	if f.Lng != nil {
		lng, err := parseFloat(*f.Lng)
		if err != nil {
			return nil, err
		}
		r.Lng = &lng
	}
	return r, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
