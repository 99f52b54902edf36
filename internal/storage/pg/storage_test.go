package pg

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/cytora/melp-api/internal/storage"
)

func Test_insertResult(t *testing.T) {
	duplicate := fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolation})
	tests := []struct {
		name    string
		err     error
		attempt int
		want    error
	}{
		{name: "success", attempt: 1},
		{name: "duplicate on first attempt", err: duplicate, attempt: 1, want: storage.ErrAlreadyExists},
		{name: "duplicate after dropped connection", err: duplicate, attempt: 2},
		{name: "dropped connection", err: io.ErrUnexpectedEOF, attempt: 1, want: io.ErrUnexpectedEOF},
		{name: "other pg error", err: &pgconn.PgError{Code: "23502"}, attempt: 2, want: &pgconn.PgError{Code: "23502"}},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			got := insertResult(tt.err, tt.attempt)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_wrap(t *testing.T) {
	assert.Nil(t, wrap(nil))
	assert.Equal(t, storage.ErrAlreadyExists, wrap(storage.ErrAlreadyExists))
	assert.True(t, errors.Is(wrap(io.ErrUnexpectedEOF), storage.ErrStorage))
}
