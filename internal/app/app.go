// Package app constructs every long-lived dependency once and threads them
// explicitly to the HTTP layer and the command-line entry points.
package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/ports"
	"github.com/travelguard/backoffice/internal/core/service"
	"github.com/travelguard/backoffice/internal/infrastructure/config"
	"github.com/travelguard/backoffice/internal/infrastructure/db/redis"
	"github.com/travelguard/backoffice/internal/infrastructure/storage"
	"github.com/travelguard/backoffice/internal/infrastructure/token"
)

// App is the application context shared by the server and the seeder.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	Repos *storage.Repositories
	Redis *goredis.Client

	Users      *service.UserService
	Auth       *service.AuthService
	Clients    *service.ClientService
	Insurances *service.InsuranceService
}

// New opens storage and the optional Redis connection, then wires services.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	repos, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			repos.Close(ctx)
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis login guard enabled")
	}

	return Wire(cfg, log, repos, rdb), nil
}

// Wire builds services over already-open resources.
func Wire(cfg *config.Config, log zerolog.Logger, repos *storage.Repositories, rdb *goredis.Client) *App {
	var guard ports.LoginGuard
	if rdb != nil {
		guard = redis.NewLoginGuard(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	}

	users := service.NewUserService(repos.Users, log.With().Str("component", "users").Logger())
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	return &App{
		Config:     cfg,
		Logger:     log,
		Repos:      repos,
		Redis:      rdb,
		Users:      users,
		Auth:       service.NewAuthService(users, tokens, guard, log.With().Str("component", "auth").Logger()),
		Clients:    service.NewClientService(repos.Clients, repos.Insurances, log.With().Str("component", "clients").Logger()),
		Insurances: service.NewInsuranceService(repos.Insurances, repos.Clients, log.With().Str("component", "insurances").Logger()),
	}
}

// Pingers lists the dependencies checked by the readiness probe.
func (a *App) Pingers() map[string]func(context.Context) error {
	out := make(map[string]func(context.Context) error)
	if a.Repos.Ping != nil {
		out[a.Repos.Driver] = a.Repos.Ping
	}
	if a.Redis != nil {
		out["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return out
}

// Close releases storage and Redis.
func (a *App) Close(ctx context.Context) {
	a.Repos.Close(ctx)
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("redis close")
		}
	}
}
