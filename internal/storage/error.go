package storage

import (
	"errors"
	"fmt"
)

var (
	ErrStorage       = errors.New("storage error")
	ErrNotFound      = fmt.Errorf("%w not found", ErrStorage)
	ErrAlreadyExists = fmt.Errorf("%w already exists", ErrStorage)
)
