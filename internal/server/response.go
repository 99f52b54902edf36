package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/cytora/melp-api/internal/logging"
)

const contentType = "application/json; charset=utf-8"

// HandlerFunc handles a request and returns the status code and the payload to
// be written as JSON. Handlers log their own failures; a non-nil error is only
// traced at debug level.
type HandlerFunc func(r *http.Request) (int, interface{}, error)

// MessageResponse is the body of every message-only reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorToResponse renders err as a message response with the given status.
func ErrorToResponse(err error, status int) (int, interface{}, error) {
	return status, &MessageResponse{Message: err.Error()}, err
}

// ToHTTPHandlerFunc adapts f to net/http.
func ToHTTPHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, payload, err := f(r)
		if err != nil {
			logging.Debug(r.Context(), logging.Data{"status": status, "error": err.Error()}, "request failed")
		}
		WriteJSON(w, r, status, payload)
	}
}

// WriteJSON encodes payload without escaping non-ASCII or HTML characters.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		logging.Error(r.Context(), err, nil, "failed to encode response")
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}
