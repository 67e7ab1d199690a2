// @title                       Travel insurance back office API
// @version                     1.0
// @description                 Clients, insurance policies and back-office users.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/travelguard/backoffice/docs"
	"github.com/travelguard/backoffice/internal/api"
	"github.com/travelguard/backoffice/internal/app"
	"github.com/travelguard/backoffice/internal/infrastructure/config"
	"github.com/travelguard/backoffice/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "backoffice",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found; using the process environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init application")
	}

	e, err := api.NewRouter(api.Dependencies{
		Users:         a.Users,
		Auth:          a.Auth,
		Clients:       a.Clients,
		Insurances:    a.Insurances,
		Health:        a.Pingers(),
		Logger:        log,
		SecureCookies: cfg.IsProduction(),
		CORSOrigins:   cfg.CORSOrigins,
		LoginRate:     cfg.Login.RatePerSecond,
		Metrics:       true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	go func() {
		log.Info().
			Str("addr", cfg.HTTPAddress()).
			Str("env", cfg.Env).
			Str("storage", cfg.StorageDriver).
			Msg("http server listening")
		if err := e.Start(cfg.HTTPAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	log.Info().Str("signal", received.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	a.Close(shutdownCtx)
	log.Info().Msg("server stopped")
}
