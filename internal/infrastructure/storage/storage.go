// Package storage selects the repository backend named by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/ports"
	"github.com/travelguard/backoffice/internal/infrastructure/config"
	"github.com/travelguard/backoffice/internal/infrastructure/db/memory"
	"github.com/travelguard/backoffice/internal/infrastructure/db/mongo"
	"github.com/travelguard/backoffice/internal/infrastructure/db/postgres"
)

// Repositories bundles one backend's implementation of every port.
type Repositories struct {
	Driver     string
	Users      ports.UserRepository
	Clients    ports.ClientRepository
	Insurances ports.InsuranceRepository

	// Ping reports backend health; nil for the memory driver.
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context)
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.StorageDriver {
	case "postgres":
		s, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info().Msg("postgres storage ready")
		return &Repositories{
			Driver:     cfg.StorageDriver,
			Users:      s.Users(),
			Clients:    s.Clients(),
			Insurances: s.Insurances(),
			Ping:       s.Ping,
			Close:      func(context.Context) { s.Close() },
		}, nil

	case "mongo":
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo storage ready")
		return &Repositories{
			Driver:     cfg.StorageDriver,
			Users:      s.Users(),
			Clients:    s.Clients(),
			Insurances: s.Insurances(),
			Ping:       s.Ping,
			Close: func(ctx context.Context) {
				if err := s.Close(ctx); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil

	case "memory":
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return Memory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Memory returns a fresh in-memory backend.
func Memory() *Repositories {
	s := memory.New()
	return &Repositories{
		Driver:     "memory",
		Users:      s.Users(),
		Clients:    s.Clients(),
		Insurances: s.Insurances(),
		Close:      func(context.Context) {},
	}
}
