package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// Runs only when TEST_POSTGRES_DSN points at a disposable database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := s.pool.Exec(ctx, `TRUNCATE insurances, clients, users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestPostgres_ClientInsuranceLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	clients := s.Clients()
	c, err := clients.Create(ctx, &domain.Client{ID: uuid.NewString(), Name: "Ana", CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if c.Email != "" {
		t.Fatalf("expected empty email, got %q", c.Email)
	}

	if _, err := clients.Create(ctx, &domain.Client{ID: uuid.NewString(), Name: "Bob", Email: "a@b.com", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create Bob: %v", err)
	}
	_, err = clients.Create(ctx, &domain.Client{ID: uuid.NewString(), Name: "Carl", Email: "a@b.com", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	insurances := s.Insurances()
	ins, err := insurances.Create(ctx, &domain.Insurance{
		ID: uuid.NewString(), ClientID: c.ID, PolicyNumber: "P1", Coverage: "Full",
		StartDate: now, EndDate: now.AddDate(1, 0, 0), Status: domain.InsuranceActive,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create insurance: %v", err)
	}

	updated, err := insurances.UpdateStatus(ctx, ins.ID, domain.InsuranceCanceled)
	if err != nil || updated.Status != domain.InsuranceCanceled {
		t.Fatalf("update status: %v %v", updated, err)
	}

	page, total, err := insurances.List(ctx, ports.InsuranceFilter{PolicyNumber: "p"})
	if err != nil || total != 1 || len(page) != 1 {
		t.Fatalf("list: %v total=%d err=%v", page, total, err)
	}

	if err := clients.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if got, _ := insurances.FindByID(ctx, ins.ID); got != nil {
		t.Fatalf("expected cascade delete")
	}
}
