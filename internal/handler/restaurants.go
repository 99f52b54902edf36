package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/restaurant"
	"github.com/cytora/melp-api/internal/server"
	"github.com/cytora/melp-api/internal/storage"
)

type ListResponse struct {
	Restaurants []*restaurant.Restaurant `json:"restaurants"`
}

func message(msg string) (int, interface{}, error) {
	return http.StatusOK, &server.MessageResponse{Message: msg}, nil
}

func internalError() (int, interface{}, error) {
	return server.ErrorToResponse(ErrInternal, http.StatusInternalServerError)
}

// Get returns one restaurant when an id is given, otherwise all of them by ascending rating.
func (h *Handler) Get(r *http.Request) (int, interface{}, error) {
	ctx := r.Context()
	req, err := server.Unmarshal(r)
	if err != nil {
		logging.Error(ctx, err, nil, "invalid request")
		return server.ErrorToResponse(ErrInvalidRequest, http.StatusBadRequest)
	}
	if id, ok := req.Value("id"); ok {
		data, err := h.storage.Restaurant(ctx, id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return message(MsgNotFound)
		case err != nil:
			logging.Error(ctx, err, logging.Data{"id": id}, "error retrieving restaurant")
			return internalError()
		}
		return http.StatusOK, data.Restaurant(), nil
	}
	rows, err := h.storage.Restaurants(ctx)
	if err != nil {
		logging.Error(ctx, err, nil, "error listing restaurants")
		return internalError()
	}
	payload := &ListResponse{Restaurants: make([]*restaurant.Restaurant, 0, len(rows))}
	for i := range rows {
		payload.Restaurants = append(payload.Restaurants, rows[i].Restaurant())
	}
	return http.StatusOK, payload, nil
}

// Create validates the submitted form and stores a new restaurant under a generated id.
func (h *Handler) Create(r *http.Request) (int, interface{}, error) {
	ctx := r.Context()
	req, err := server.Unmarshal(r)
	if err != nil {
		logging.Error(ctx, err, nil, "invalid request")
		return server.ErrorToResponse(ErrInvalidRequest, http.StatusBadRequest)
	}
	form := restaurant.FormFromValues(req.Values())
	if res := restaurant.Check(form); !res.IsCorrect {
		return http.StatusOK, &res, nil
	}
	rest, err := form.Restaurant(restaurant.NewID(h.now(), *form.Name))
	if err != nil {
		logging.Error(ctx, err, nil, "validated form failed to convert")
		return internalError()
	}
	if err := h.storage.Insert(ctx, storage.FromRestaurant(rest)); err != nil {
		logging.Error(ctx, err, logging.Data{"id": rest.ID}, "error creating restaurant")
		return internalError()
	}
	logging.Info(ctx, logging.Data{"id": rest.ID}, "restaurant created")
	return http.StatusOK, rest, nil
}

// Update merges the submitted fields onto an existing restaurant and re-validates the result.
func (h *Handler) Update(r *http.Request) (int, interface{}, error) {
	ctx := r.Context()
	req, err := server.Unmarshal(r)
	if err != nil {
		logging.Error(ctx, err, nil, "invalid request")
		return server.ErrorToResponse(ErrInvalidRequest, http.StatusBadRequest)
	}
	id, ok := req.Value("id")
	if !ok {
		return message(MsgNoID)
	}
	data, err := h.storage.Restaurant(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return message(MsgNotFound)
	case err != nil:
		logging.Error(ctx, err, logging.Data{"id": id}, "error retrieving restaurant")
		return internalError()
	}
	form := restaurant.FormFromRestaurant(data.Restaurant()).Merge(restaurant.FormFromValues(req.Values()))
	if res := restaurant.Check(form); !res.IsCorrect {
		return http.StatusOK, &res, nil
	}
	rest, err := form.Restaurant(id)
	if err != nil {
		logging.Error(ctx, err, logging.Data{"id": id}, "validated form failed to convert")
		return internalError()
	}
	err = h.storage.Update(ctx, storage.FromRestaurant(rest))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// deleted concurrently
		return message(MsgNotFound)
	case err != nil:
		logging.Error(ctx, err, logging.Data{"id": id}, "error updating restaurant")
		return internalError()
	}
	return http.StatusOK, rest, nil
}

// Delete removes the restaurant with the submitted id.
func (h *Handler) Delete(r *http.Request) (int, interface{}, error) {
	ctx := r.Context()
	req, err := server.Unmarshal(r)
	if err != nil {
		logging.Error(ctx, err, nil, "invalid request")
		return server.ErrorToResponse(ErrInvalidRequest, http.StatusBadRequest)
	}
	id, ok := req.Value("id")
	if !ok {
		return message(MsgNoID)
	}
	err = h.storage.Delete(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return message(MsgNotFound)
	case err != nil:
		logging.Error(ctx, err, logging.Data{"id": id}, "error deleting restaurant")
		return internalError()
	}
	logging.Info(ctx, logging.Data{"id": id}, "restaurant deleted")
	return message(fmt.Sprintf(msgDeleted, id))
}
