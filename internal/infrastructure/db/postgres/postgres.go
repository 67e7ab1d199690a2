// Package postgres implements the repository ports on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// Store owns the connection pool shared by every repository.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, verifies connectivity and applies migrations.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Users() *UserRepository { return &UserRepository{pool: s.pool} }
func (s *Store) Clients() *ClientRepository { return &ClientRepository{pool: s.pool} }
func (s *Store) Insurances() *InsuranceRepository { return &InsuranceRepository{pool: s.pool} }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'ADMIN',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT users_email_key UNIQUE (email),
			CONSTRAINT users_role_check CHECK (role IN ('ADMIN', 'STAFF'))
		);`,
		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT clients_email_key UNIQUE (email)
		);`,
		`CREATE TABLE IF NOT EXISTS insurances (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			policy_number TEXT NOT NULL,
			coverage TEXT NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT insurances_policy_number_key UNIQUE (policy_number),
			CONSTRAINT insurances_client_id_fkey FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
			CONSTRAINT insurances_status_check CHECK (status IN ('active', 'expired', 'canceled')),
			CONSTRAINT insurances_date_range_check CHECK (end_date > start_date)
		);`,
		`CREATE INDEX IF NOT EXISTS insurances_client_id_idx ON insurances (client_id);`,
		`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS clients_created_at_idx ON clients (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS insurances_created_at_idx ON insurances (created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// translate maps constraint violations onto domain errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case "insurances_policy_number_key":
			return domain.ErrPolicyNumberInUse
		case "users_email_key", "clients_email_key":
			return domain.ErrEmailInUse
		}
		return domain.NewConflictError("record already exists")
	case codeForeignKeyViolation:
		return domain.ErrClientNotFound
	case codeCheckViolation:
		return domain.NewValidationError("constraint violated", pgErr.ConstraintName)
	}
	return err
}
