package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/cytora/melp-api/internal"
	"github.com/cytora/melp-api/internal/config"
	"github.com/cytora/melp-api/internal/handler"
	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/server"
	"github.com/cytora/melp-api/internal/storage/pg"
)

var (
	configs *config.Config
)

func init() {
	_ = godotenv.Load()
	var err error
	configs, err = config.Load()
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to load configuration")
	}
	if err := logging.Init(configs.LogLevel, configs.Env, configs.Service, configs.Version); err != nil {
		logging.FatalNoCtx(err, nil, "failed to initialise logger")
	}
}

func main() {
	defer logging.Sync()

	srv, err := server.New(configs.Env, configs.Service, configs.Version,
		server.WithPort(configs.Port),
		server.WithAllowedOrigins(configs.AllowedOrigins),
		server.WithShutdownTimeout(configs.ShutdownTimeout),
	)
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to create server")
	}
	stg, err := pg.New(context.Background(), configs)
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to start storage connection")
	}
	defer stg.Close()

	h := handler.New(stg)
	routes := []struct {
		opt server.RouteOption
		fn  server.HandlerFunc
	}{
		{server.RouteOption{API: internal.RestaurantsEndpoint, Method: http.MethodGet, Path: "/restaurants"}, h.Get},
		{server.RouteOption{API: internal.RestaurantsEndpoint, Method: http.MethodPost, Path: "/restaurants"}, h.Create},
		{server.RouteOption{API: internal.RestaurantsEndpoint, Method: http.MethodPut, Path: "/restaurants"}, h.Update},
		{server.RouteOption{API: internal.RestaurantsEndpoint, Method: http.MethodDelete, Path: "/restaurants"}, h.Delete},
		{server.RouteOption{API: internal.StatisticsEndpoint, Method: http.MethodGet, Path: "/restaurants/statistics"}, h.Statistics},
		{server.RouteOption{API: internal.HealthEndpoint, Method: http.MethodGet, Path: "/healthz"}, h.Health},
	}
	for _, r := range routes {
		srv.MustAddRoute(r.opt, server.ToHTTPHandlerFunc(r.fn))
	}
	srv.Run()
}
