package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cytora/melp-api/internal/logging"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports whether the store answers a ping.
func (h *Handler) Health(r *http.Request) (int, interface{}, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.storage.Ping(ctx); err != nil {
		logging.Error(ctx, err, nil, "health check failed")
		return http.StatusServiceUnavailable, &HealthResponse{Status: "unhealthy"}, nil
	}
	return http.StatusOK, &HealthResponse{Status: "healthy"}, nil
}
