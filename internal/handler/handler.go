package handler

import (
	"time"

	"github.com/cytora/melp-api/internal/storage"
)

// Handler serves the restaurants endpoints. It holds no state across requests
// besides the injected store.
type Handler struct {
	storage storage.Storage
	now     func() time.Time
}

func New(storage storage.Storage, opts ...OptionFunc) *Handler {
	opt := defaultHandlerOptions()
	for _, f := range opts {
		f(opt)
	}
	return &Handler{
		storage: storage,
		now:     opt.now,
	}
}
