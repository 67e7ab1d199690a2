package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
	"github.com/travelguard/backoffice/internal/infrastructure/config"
	"github.com/travelguard/backoffice/internal/infrastructure/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTIssuer: "test",
		TokenTTL:  time.Hour,
	}
	return Wire(cfg, zerolog.Nop(), storage.Memory(), nil)
}

func TestSeed_CreatesSampleData(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	res, err := a.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res != (SeedResult{Users: 1, Clients: 3, Insurances: 3}) {
		t.Fatalf("unexpected result: %+v", res)
	}

	admin, err := a.Users.FindByEmail(ctx, "admin@local.dev")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", admin.Role)
	}
	if _, err := a.Auth.Login(ctx, ports.LoginInput{Email: "admin@local.dev", Password: "admin123"}); err != nil {
		t.Fatalf("seeded admin cannot log in: %v", err)
	}

	ins, err := a.Insurances.GetInsuranceByPolicyNumber(ctx, "POL-003-2023")
	if err != nil {
		t.Fatalf("GetInsuranceByPolicyNumber: %v", err)
	}
	if ins.Status != domain.InsuranceExpired {
		t.Fatalf("expected expired policy, got %s", ins.Status)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if _, err := a.Seed(ctx); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	res, err := a.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if res != (SeedResult{}) {
		t.Fatalf("expected nothing created, got %+v", res)
	}

	page, err := a.Clients.FindAll(ctx, ports.ClientFilter{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected 3 clients, got %d", page.Total)
	}
}

func TestPingers_MemoryHasNone(t *testing.T) {
	a := newTestApp(t)
	if got := a.Pingers(); len(got) != 0 {
		t.Fatalf("expected no pingers for memory storage, got %v", len(got))
	}
	a.Close(context.Background())
}
