package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/cytora/melp-api/internal/logging"
)

const requestIDHeader = "X-Request-Id"

var ErrInternal = errors.New("internal error")

// RouteOption describes a route. API names the endpoint in logs and metrics.
type RouteOption struct {
	API    string
	Method string
	Path   string
}

type Server struct {
	env     string
	service string
	version string

	router *mux.Router
	opts   *Options
}

func New(env, service, version string, opts ...OptionFunc) (*Server, error) {
	if service == "" {
		return nil, errors.New("service name is required")
	}
	opt := defaultOptions()
	for _, f := range opts {
		f(opt)
	}
	s := &Server{
		env:     env,
		service: service,
		version: version,
		router:  mux.NewRouter(),
		opts:    opt,
	}
	s.router.Use(s.requestID, s.accessLog, s.recoverPanic)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return s, nil
}

// MustAddRoute registers h and panics if the route is invalid.
func (s *Server) MustAddRoute(opt RouteOption, h http.Handler) {
	if opt.API == "" || opt.Path == "" || opt.Method == "" {
		panic(fmt.Sprintf("invalid route %+v", opt))
	}
	s.router.Handle(opt.Path, instrument(opt.API, h)).Methods(opt.Method)
}

// Handler returns the full handler chain, CORS included.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.opts.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(s.router)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logging.Info(context.Background(), nil, "shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error(ctx, err, nil, "error shutting down server")
		}
	}()

	logging.Info(context.Background(), logging.Data{"port": s.opts.port, "env": s.env, "version": s.version}, "server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.FatalNoCtx(err, nil, "failed to start server")
	}
	<-done
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Info(r.Context(), logging.Data{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"latency": time.Since(start).String(),
		}, "request")
	})
}

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Error(r.Context(), fmt.Errorf("panic: %v", rec), nil, "recovered from panic")
				WriteJSON(w, r, http.StatusInternalServerError, &MessageResponse{Message: ErrInternal.Error()})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
