package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/cytora/melp-api/internal"
	"github.com/cytora/melp-api/internal/handler"
	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/restaurant"
)

const (
	restaurantsPath = "/restaurants"
	statisticsPath  = "/restaurants/statistics"
)

var (
	ErrClient     = errors.New("melp client error")
	ErrNotFound   = fmt.Errorf("%w not found", ErrClient)
	ErrNoID       = fmt.Errorf("%w no id", ErrClient)
	ErrValidation = fmt.Errorf("%w validation failed", ErrClient)
	ErrRadius     = fmt.Errorf("%w wrong radius", ErrClient)
	ErrServer     = fmt.Errorf("%w server error", ErrClient)
)

type RestaurantService interface {
	List(ctx context.Context) ([]*restaurant.Restaurant, error)
	Get(ctx context.Context, id string) (*restaurant.Restaurant, error)
	Create(ctx context.Context, form restaurant.Form) (*restaurant.Restaurant, error)
	Update(ctx context.Context, id string, form restaurant.Form) (*restaurant.Restaurant, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, lat, lng, radius float64) (*restaurant.Statistics, error)
}

// ValidationError carries the messages of a rejected submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Messages, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StatusError is returned for any non-200 reply.
type StatusError struct {
	API     string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d: %s", ErrServer, e.API, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrServer
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

func New(baseURL string, opts ...HTTPClientFunc) (RestaurantService, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", ErrClient, baseURL)
	}
	opt := defaultClientOptions()
	for _, f := range opts {
		f(opt)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opt.httpClient,
		maxRetries: opt.maxRetries,
	}, nil
}

type request struct {
	api    string
	method string
	path   string
	query  url.Values
	form   url.Values
}

// reply is the union of every body shape the service answers with.
type reply struct {
	raw       json.RawMessage
	message   *string
	isCorrect *bool
	messages  []string
}

func (r *reply) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0], data...)
	probe := struct {
		Message   json.RawMessage `json:"message"`
		IsCorrect *bool           `json:"isCorrect"`
	}{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	r.isCorrect = probe.IsCorrect
	if len(probe.Message) == 0 {
		return nil
	}
	if probe.IsCorrect != nil {
		return json.Unmarshal(probe.Message, &r.messages)
	}
	msg := ""
	if err := json.Unmarshal(probe.Message, &msg); err != nil {
		return err
	}
	r.message = &msg
	return nil
}

// send performs req, retrying transport failures and 5xx replies of idempotent
// requests, and returns the decoded reply.
func (s *Client) send(ctx context.Context, req request) (*reply, error) {
	var out *reply
	op := func() error {
		res, err := s.do(ctx, req)
		if err != nil {
			return err
		}
		out = res
		return nil
	}
	var bo backoff.BackOff = &backoff.StopBackOff{}
	if req.method == http.MethodGet {
		bo = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries)
	}
	err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), func(err error, d time.Duration) {
		logging.Warn(ctx, logging.Data{"api": req.api, "error": err.Error(), "retry_in": d.String()}, "retrying request")
	})
	return out, err
}

func (s *Client) do(ctx context.Context, req request) (*reply, error) {
	var body io.Reader
	if req.form != nil {
		body = strings.NewReader(req.form.Encode())
	}
	u := s.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if id := logging.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}
	res, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		statusErr := &StatusError{API: req.api, Status: res.StatusCode, Message: string(bytes.TrimSpace(data))}
		msg := struct {
			Message string `json:"message"`
		}{}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			statusErr.Message = msg.Message
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}
	out := &reply{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: decoding %s reply: %v", ErrClient, req.api, err))
	}
	return out, nil
}

// result turns in-band failures into errors and decodes anything else into dst.
func (r *reply) result(dst interface{}) error {
	if r.isCorrect != nil && !*r.isCorrect {
		return &ValidationError{Messages: r.messages}
	}
	if r.message != nil {
		switch *r.message {
		case handler.MsgNotFound:
			return ErrNotFound
		case handler.MsgNoID:
			return ErrNoID
		case handler.MsgWrongRadius:
			return ErrRadius
		}
		if dst == nil {
			return nil
		}
		return fmt.Errorf("%w: unexpected message %q", ErrClient, *r.message)
	}
	if dst == nil {
		return nil
	}
	return json.Unmarshal(r.raw, dst)
}

func (s *Client) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	rep, err := s.send(ctx, request{api: internal.RestaurantsEndpoint, method: http.MethodGet, path: restaurantsPath})
	if err != nil {
		return nil, err
	}
	res := handler.ListResponse{}
	if err := rep.result(&res); err != nil {
		return nil, err
	}
	return res.Restaurants, nil
}

func (s *Client) Get(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	if id == "" {
		return nil, ErrNoID
	}
	rep, err := s.send(ctx, request{
		api:    internal.RestaurantsEndpoint,
		method: http.MethodGet,
		path:   restaurantsPath,
		query:  url.Values{"id": {id}},
	})
	if err != nil {
		return nil, err
	}
	res := &restaurant.Restaurant{}
	if err := rep.result(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Client) Create(ctx context.Context, form restaurant.Form) (*restaurant.Restaurant, error) {
	rep, err := s.send(ctx, request{
		api:    internal.RestaurantsEndpoint,
		method: http.MethodPost,
		path:   restaurantsPath,
		form:   form.Values(),
	})
	if err != nil {
		return nil, err
	}
	res := &restaurant.Restaurant{}
	if err := rep.result(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Client) Update(ctx context.Context, id string, form restaurant.Form) (*restaurant.Restaurant, error) {
	values := form.Values()
	values.Set("id", id)
	rep, err := s.send(ctx, request{
		api:    internal.RestaurantsEndpoint,
		method: http.MethodPut,
		path:   restaurantsPath,
		form:   values,
	})
	if err != nil {
		return nil, err
	}
	res := &restaurant.Restaurant{}
	if err := rep.result(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Client) Delete(ctx context.Context, id string) error {
	rep, err := s.send(ctx, request{
		api:    internal.RestaurantsEndpoint,
		method: http.MethodDelete,
		path:   restaurantsPath,
		form:   url.Values{"id": {id}},
	})
	if err != nil {
		return err
	}
	return rep.result(nil)
}

func (s *Client) Statistics(ctx context.Context, lat, lng, radius float64) (*restaurant.Statistics, error) {
	rep, err := s.send(ctx, request{
		api:    internal.StatisticsEndpoint,
		method: http.MethodGet,
		path:   statisticsPath,
		query: url.Values{
			"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
			"longitude": {strconv.FormatFloat(lng, 'f', -1, 64)},
			"radius":    {strconv.FormatFloat(radius, 'f', -1, 64)},
		},
	})
	if err != nil {
		return nil, err
	}
	res := &restaurant.Statistics{}
	if err := rep.result(res); err != nil {
		return nil, err
	}
	return res, nil
}
