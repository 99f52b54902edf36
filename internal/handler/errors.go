package handler

import (
	"errors"
	"fmt"
)

// Error exported by the handler package
var (
	ErrHandler            = errors.New("handler error")
	ErrInvalidRequest     = fmt.Errorf("%w invalid request", ErrHandler)
	ErrInvalidQueryParams = fmt.Errorf("%w invalid query params", ErrHandler)
	ErrInternal           = fmt.Errorf("%w internal error", ErrHandler)
)

// In-band messages returned with a 200 status.
const (
	MsgNoID        = "No id provided"
	MsgNotFound    = "No restaurant found with the provided id"
	MsgWrongRadius = "Wrong radius"
	msgDeleted     = "deleted %s"
)
