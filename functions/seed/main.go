package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/cytora/melp-api/internal/config"
	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/seed"
)

func main() {
	_ = godotenv.Load()
	conf, err := config.Load()
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to load configuration")
	}
	if err := logging.Init(conf.LogLevel, conf.Env, conf.Service, conf.Version); err != nil {
		logging.FatalNoCtx(err, nil, "failed to initialise logger")
	}
	defer logging.Sync()

	ctx := context.Background()
	f, err := os.Open(conf.SeedCSVPath)
	if err != nil {
		logging.FatalNoCtx(err, logging.Data{"path": conf.SeedCSVPath}, "failed to open seed file")
	}
	rows, err := seed.Parse(f)
	_ = f.Close()
	if err != nil {
		logging.FatalNoCtx(err, logging.Data{"path": conf.SeedCSVPath}, "failed to parse seed file")
	}

	db, err := seed.Open(ctx, conf)
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to connect to database")
	}
	defer db.Close()

	n, err := seed.Load(ctx, db, rows)
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to seed restaurants")
	}
	logging.Info(ctx, logging.Data{"rows": n, "path": conf.SeedCSVPath}, "seed finished")
}
