package handler

import (
	"net/http"

	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/restaurant"
	"github.com/cytora/melp-api/internal/server"
)

type statisticsQueryParams struct {
	Latitude  *string `schema:"latitude"`
	Longitude *string `schema:"longitude"`
	Radius    string  `schema:"radius"`
}

// Statistics reports count, mean and standard deviation of the ratings of the
// restaurants within radius meters of (latitude, longitude).
func (h *Handler) Statistics(r *http.Request) (int, interface{}, error) {
	ctx := r.Context()
	req, err := server.Unmarshal(r)
	if err != nil {
		logging.Error(ctx, err, nil, "invalid request")
		return server.ErrorToResponse(ErrInvalidRequest, http.StatusBadRequest)
	}
	params := &statisticsQueryParams{}
	if err := req.UnmarshalQueryParams(ctx, params, true); err != nil {
		logging.Error(ctx, err, nil, "invalid query params")
		return server.ErrorToResponse(ErrInvalidQueryParams, http.StatusBadRequest)
	}
	lat, lng, res := restaurant.ParseLocation(params.Latitude, params.Longitude)
	if !res.IsCorrect {
		return http.StatusOK, &res, nil
	}
	radius, ok := restaurant.ParseRadius(params.Radius)
	if !ok {
		return message(MsgWrongRadius)
	}
	ratings, err := h.storage.RatingsWithin(ctx, lat, lng, radius)
	if err != nil {
		logging.Error(ctx, err, logging.Data{"lat": lat, "lng": lng, "radius": radius}, "error querying ratings")
		return internalError()
	}
	return http.StatusOK, restaurant.Summarize(ratings), nil
}
