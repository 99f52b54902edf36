package restaurant

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string {
	return &s
}

func validForm() Form {
	return Form{
		Rating: str("3"),
		Name:   str("Cafe X"),
		Lat:    str("40.0"),
		Lng:    str("-73.0"),
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(f *Form)
		correct bool
		message []string
	}{
		{
			name:    "valid",
			modify:  func(f *Form) {},
			correct: true,
			message: []string{},
		},
		{
			name:    "rating lower bound",
			modify:  func(f *Form) { f.Rating = str("0") },
			correct: true,
			message: []string{},
		},
		{
			name:    "rating upper bound",
			modify:  func(f *Form) { f.Rating = str("4") },
			correct: true,
			message: []string{},
		},
		{
			name:    "rating too high",
			modify:  func(f *Form) { f.Rating = str("5") },
			message: []string{MsgRatingOutOfBounds},
		},
		{
			name:    "rating negative",
			modify:  func(f *Form) { f.Rating = str("-1") },
			message: []string{MsgRatingOutOfBounds},
		},
		{
			name:    "rating not integer",
			modify:  func(f *Form) { f.Rating = str("3.5") },
			message: []string{MsgRatingNotInteger},
		},
		{
			name:    "rating missing",
			modify:  func(f *Form) { f.Rating = nil },
			message: []string{MsgRatingMissing},
		},
		{
			name:    "name missing",
			modify:  func(f *Form) { f.Name = nil },
			message: []string{MsgNameMissing},
		},
		{
			name:    "name blank",
			modify:  func(f *Form) { f.Name = str("  ") },
			message: []string{MsgNameMissing},
		},
		{
			name:    "lat bounds inclusive",
			modify:  func(f *Form) { f.Lat = str("-90"); f.Lng = str("180") },
			correct: true,
			message: []string{},
		},
		{
			name:    "lat out of bounds",
			modify:  func(f *Form) { f.Lat = str("90.0001") },
			message: []string{MsgLatOutOfBounds},
		},
		{
			name:    "lng out of bounds",
			modify:  func(f *Form) { f.Lng = str("-180.5") },
			message: []string{MsgLngOutOfBounds},
		},
		{
			name:    "lat not a number",
			modify:  func(f *Form) { f.Lat = str("north") },
			message: []string{MsgLatNotNumber},
		},
		{
			name:    "lng nan",
			modify:  func(f *Form) { f.Lng = str("NaN") },
			message: []string{MsgLngNotNumber},
		},
		{
			name: "everything wrong",
			modify: func(f *Form) {
				*f = Form{Rating: str("9"), Lat: str("100"), Lng: str("x")}
			},
			message: []string{MsgRatingOutOfBounds, MsgNameMissing, MsgLatOutOfBounds, MsgLngNotNumber},
		},
		{
			name:    "nothing submitted",
			modify:  func(f *Form) { *f = Form{} },
			message: []string{MsgRatingMissing, MsgNameMissing, MsgLatMissing, MsgLngMissing},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			got := Check(f)
			assert.Equal(t, tt.correct, got.IsCorrect)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestCheck_ratingRange(t *testing.T) {
	for r := -3; r <= 8; r++ {
		f := validForm()
		f.Rating = str(strconv.Itoa(r))
		assert.Equal(t, r >= 0 && r <= 4, Check(f).IsCorrect, "rating %d", r)
	}
}

func TestParseRadius(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{"0.5", 0.5, true},
		{"0", 0, false},
		{"-10", 0, false},
		{"", 0, false},
		{"far", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRadius(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseLocation(t *testing.T) {
	lat, lng, res := ParseLocation(str(" 19.4 "), str("-99.1"))
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 19.4, lat)
	assert.Equal(t, -99.1, lng)
	assert.Equal(t, Result{IsCorrect: true, Message: []string{}}, res)

	_, _, res = ParseLocation(nil, nil)
	assert.Equal(t, Result{Message: []string{MsgLatMissing, MsgLngMissing}}, res)

	_, _, res = ParseLocation(str("-91"), str("0"))
	assert.Equal(t, Result{Message: []string{MsgLatOutOfBounds}}, res)

	_, _, res = ParseLocation(str("0"), str("east"))
	assert.Equal(t, Result{Message: []string{MsgLngNotNumber}}, res)
}
