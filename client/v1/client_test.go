package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytora/melp-api/internal/restaurant"
)

func TestNew(t *testing.T) {
	_, err := New("not a url")
	assert.True(t, errors.Is(err, ErrClient))

	_, err = New("http://localhost:3000/")
	assert.NoError(t, err)
}

func TestClient_replies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		call   func(c RestaurantService) error
		err    error
	}{
		{
			name:   "not found",
			status: http.StatusOK,
			body:   `{"message":"No restaurant found with the provided id"}`,
			call: func(c RestaurantService) error {
				_, err := c.Get(context.Background(), "x")
				return err
			},
			err: ErrNotFound,
		},
		{
			name:   "validation",
			status: http.StatusOK,
			body:   `{"isCorrect":false,"message":["rating out of bounds!"]}`,
			call: func(c RestaurantService) error {
				_, err := c.Create(context.Background(), restaurant.Form{})
				return err
			},
			err: ErrValidation,
		},
		{
			name:   "wrong radius",
			status: http.StatusOK,
			body:   `{"message":"Wrong radius"}`,
			call: func(c RestaurantService) error {
				_, err := c.Statistics(context.Background(), 0, 0, -1)
				return err
			},
			err: ErrRadius,
		},
		{
			name:   "no id",
			status: http.StatusOK,
			body:   `{"message":"No id provided"}`,
			call: func(c RestaurantService) error {
				return c.Delete(context.Background(), "")
			},
			err: ErrNoID,
		},
		{
			name:   "deleted",
			status: http.StatusOK,
			body:   `{"message":"deleted x"}`,
			call: func(c RestaurantService) error {
				return c.Delete(context.Background(), "x")
			},
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"message":"handler error invalid request"}`,
			call: func(c RestaurantService) error {
				_, err := c.Update(context.Background(), "x", restaurant.Form{})
				return err
			},
			err: ErrServer,
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(srv.URL, WithMaxRetries(0))
			require.NoError(t, err)
			err = tt.call(c)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.err), "unexpected error: %v", err)
		})
	}
}

func TestClient_validationMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isCorrect":false,"message":["name is missing!","lat out of bounds!"]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Create(context.Background(), restaurant.Form{})
	verr := &ValidationError{}
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name is missing!", "lat out of bounds!"}, verr.Messages)
}

func TestClient_retries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"handler error internal error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"count":2,"avg":2,"std":1}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithMaxRetries(2))
	require.NoError(t, err)
	stats, err := c.Statistics(context.Background(), 19.4, -99.1, 500)
	require.NoError(t, err)
	assert.Equal(t, &restaurant.Statistics{Count: 2, Avg: 2, Std: 1}, stats)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_doesNotRetryWrites(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithMaxRetries(3))
	require.NoError(t, err)
	_, err = c.Create(context.Background(), restaurant.Form{})
	statusErr := &StatusError{}
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
