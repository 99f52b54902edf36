package restaurant

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormFromValues(t *testing.T) {
	values := url.Values{
		"id":     {"client-id"},
		"name":   {"Café Ñandú"},
		"rating": {"1", "2"},
		"colour": {"red"},
		"site":   {""},
	}
	f := FormFromValues(values)
	assert.Equal(t, Form{
		Name:   str("Café Ñandú"),
		Rating: str("2"),
		Site:   str(""),
	}, f)
}

func TestForm_Values(t *testing.T) {
	f := Form{Name: str("Café Ñandú"), Rating: str("2"), Site: str("")}
	assert.Equal(t, url.Values{"name": {"Café Ñandú"}, "rating": {"2"}, "site": {""}}, f.Values())
	assert.Equal(t, f, FormFromValues(f.Values()))
	assert.Empty(t, Form{}.Values())
}

func TestForm_Merge(t *testing.T) {
	base := Form{Name: str("Old"), Rating: str("1"), City: str("Mérida")}
	merged := base.Merge(Form{Name: str("New"), Lat: str("10")})
	assert.Equal(t, Form{Name: str("New"), Rating: str("1"), City: str("Mérida"), Lat: str("10")}, merged)
	assert.Equal(t, "Old", *base.Name, "merge must not mutate the receiver")
}

func TestFormRoundTrip(t *testing.T) {
	rating := 3
	lat, lng := 19.440057053713137, -99.12704709742486
	r := &Restaurant{ID: "abc", Rating: &rating, Name: str("Cafe X"), Lat: &lat, Lng: &lng}

	f := FormFromRestaurant(r)
	assert.True(t, Check(f).IsCorrect)
	got, err := f.Restaurant("abc")
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestForm_Restaurant(t *testing.T) {
	got, err := Form{Rating: str(" 4 "), Name: str("X"), Lat: str("1.5"), Lng: str("-2")}.Restaurant("id")
	require.NoError(t, err)
	assert.Equal(t, 4, *got.Rating)
	assert.Equal(t, 1.5, *got.Lat)
	assert.Equal(t, -2.0, *got.Lng)
	assert.Nil(t, got.Site)

	_, err = Form{Rating: str("x")}.Restaurant("id")
	assert.Error(t, err)
}

func TestNewID(t *testing.T) {
	ts := time.Date(2023, 3, 1, 12, 30, 45, 123456000, time.UTC)
	id := NewID(ts, "Cafe X")
	assert.Equal(t, "287a0206dd90f8ebf0051481d8c47ec2", id)
	assert.Equal(t, id, NewID(ts, "Cafe X"))
	assert.NotEqual(t, id, NewID(ts.Add(time.Microsecond), "Cafe X"))
	assert.NotEqual(t, id, NewID(ts, "Cafe Y"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Statistics{}, Summarize(nil))

	s := Summarize([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 5.0, s.Avg)
	assert.Equal(t, 2.0, s.Std)

	s = Summarize([]int{1, 2})
	assert.Equal(t, 1.5, s.Avg)
	assert.True(t, math.Abs(s.Std-0.5) < 1e-12)
}
