package restaurant

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
)

// Violation messages reported by Check and ParseLocation.
const (
	MsgRatingMissing     = "rating is missing!"
	MsgRatingNotInteger  = "rating is not an integer!"
	MsgRatingOutOfBounds = "rating out of bounds!"
	MsgNameMissing       = "name is missing!"
	MsgLatMissing        = "lat is missing!"
	MsgLatNotNumber      = "lat is not a number!"
	MsgLatOutOfBounds    = "lat out of bounds!"
	MsgLngMissing        = "lng is missing!"
	MsgLngNotNumber      = "lng is not a number!"
	MsgLngOutOfBounds    = "lng out of bounds!"
)

const (
	ratingRule = "min=0,max=4"
	latRule    = "min=-90,max=90"
	lngRule    = "min=-180,max=180"
)

var (
	validate = validator.New()

	errNotFinite = errors.New("not a finite number")
)

// Result is the outcome of a validation. Message is never nil so it encodes as [].
type Result struct {
	IsCorrect bool     `json:"isCorrect"`
	Message   []string `json:"message"`
}

func (r *Result) fail(msg string) {
	r.IsCorrect = false
	r.Message = append(r.Message, msg)
}

func newResult() Result {
	return Result{IsCorrect: true, Message: []string{}}
}

// Check validates rating, name, lat and lng of a candidate record. Every rule
// runs; messages come out in field order.
func Check(f Form) Result {
	res := newResult()
	checkRating(&res, f.Rating)
	if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
		res.fail(MsgNameMissing)
	}
	checkCoordinate(&res, f.Lat, latRule, MsgLatMissing, MsgLatNotNumber, MsgLatOutOfBounds)
	checkCoordinate(&res, f.Lng, lngRule, MsgLngMissing, MsgLngNotNumber, MsgLngOutOfBounds)
	return res
}

// ParseLocation validates and parses a coordinate pair with the same lat/lng
// rules as Check. The coordinates are only meaningful when the result is correct.
func ParseLocation(lat, lng *string) (float64, float64, Result) {
	res := newResult()
	la := checkCoordinate(&res, lat, latRule, MsgLatMissing, MsgLatNotNumber, MsgLatOutOfBounds)
	ln := checkCoordinate(&res, lng, lngRule, MsgLngMissing, MsgLngNotNumber, MsgLngOutOfBounds)
	return la, ln, res
}

func checkRating(res *Result, v *string) {
	if v == nil {
		res.fail(MsgRatingMissing)
		return
	}
	rating, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		res.fail(MsgRatingNotInteger)
		return
	}
	if validate.Var(rating, ratingRule) != nil {
		res.fail(MsgRatingOutOfBounds)
	}
}

func checkCoordinate(res *Result, v *string, rule, missing, notNumber, outOfBounds string) float64 {
	if v == nil {
		res.fail(missing)
		return 0
	}
	f, err := parseFloat(*v)
	if err != nil {
		res.fail(notNumber)
		return 0
	}
	if validate.Var(f, rule) != nil {
		res.fail(outOfBounds)
	}
	return f
}

// ParseRadius parses a search radius in meters. It must be a finite number above zero.
func ParseRadius(v string) (float64, bool) {
	radius, err := parseFloat(v)
	if err != nil {
		return 0, false
	}
	if validate.Var(radius, "gt=0") != nil {
		return 0, false
	}
	return radius, true
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
