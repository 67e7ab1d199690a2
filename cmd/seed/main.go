// Command seed loads the default administrator and sample data into the
// configured storage backend. Safe to run repeatedly.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/travelguard/backoffice/internal/app"
	"github.com/travelguard/backoffice/internal/infrastructure/config"
	"github.com/travelguard/backoffice/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init application")
	}

	_, err = a.Seed(ctx)
	a.Close(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Str("email", "admin@local.dev").Str("password", "admin123").Msg("default admin ready")
}
