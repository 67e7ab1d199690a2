package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
	"github.com/travelguard/backoffice/internal/infrastructure/db/memory"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fixture struct {
	store      *memory.Store
	users      *UserService
	clients    *ClientService
	insurances *InsuranceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	log := zerolog.Nop()

	users := NewUserService(store.Users(), log)
	users.cost = bcrypt.MinCost
	users.now = fixedNow

	clients := NewClientService(store.Clients(), store.Insurances(), log)
	clients.now = fixedNow

	insurances := NewInsuranceService(store.Insurances(), store.Clients(), log)
	insurances.now = fixedNow

	return &fixture{store: store, users: users, clients: clients, insurances: insurances}
}

func (f *fixture) mustClient(t *testing.T, name, email string) *domain.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), ports.CreateClientInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("create client %q: %v", name, err)
	}
	return c
}

func (f *fixture) mustInsurance(t *testing.T, clientID, policy string, start, end time.Time) *domain.Insurance {
	t.Helper()
	ins, err := f.insurances.Create(context.Background(), ports.CreateInsuranceInput{
		ClientID:     clientID,
		PolicyNumber: policy,
		Coverage:     "Full",
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		t.Fatalf("create insurance %q: %v", policy, err)
	}
	return ins
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func assertKind(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
