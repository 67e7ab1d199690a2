package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type seedPolicy struct {
	clientEmail string
	number      string
	coverage    string
	start, end  time.Time
}

var (
	seedAdmin = ports.CreateUserInput{Email: "admin@local.dev", Password: "admin123", Role: string(domain.RoleAdmin)}

	seedClients = []ports.CreateClientInput{
		{Name: "João Silva", Email: "joao@example.com", Phone: "(11) 99999-9999"},
		{Name: "Maria Santos", Email: "maria@example.com", Phone: "(11) 88888-8888"},
		{Name: "Pedro Oliveira", Email: "pedro@example.com", Phone: "(11) 77777-7777"},
	}

	seedPolicies = []seedPolicy{
		{"joao@example.com", "POL-001-2024", "Cobertura Completa", day(2024, 1, 1), day(2024, 12, 31)},
		{"maria@example.com", "POL-002-2024", "Cobertura Básica", day(2024, 2, 1), day(2024, 11, 30)},
		{"pedro@example.com", "POL-003-2023", "Cobertura Premium", day(2023, 6, 1), day(2023, 12, 31)},
	}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedResult counts what Seed created; existing entries are skipped.
type SeedResult struct {
	Users      int
	Clients    int
	Insurances int
}

// Seed loads the default administrator and the sample clients and policies.
// Running it again creates nothing.
func (a *App) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	if _, err := a.Users.Create(ctx, seedAdmin); err == nil {
		res.Users++
	} else if !errors.Is(err, domain.ErrConflict) {
		return res, fmt.Errorf("seed admin: %w", err)
	}

	ids := make(map[string]string, len(seedClients))
	for _, in := range seedClients {
		c, err := a.Clients.Create(ctx, in)
		switch {
		case err == nil:
			res.Clients++
		case errors.Is(err, domain.ErrConflict):
			if c, err = a.clientByEmail(ctx, in.Email); err != nil {
				return res, fmt.Errorf("seed client %s: %w", in.Email, err)
			}
		default:
			return res, fmt.Errorf("seed client %s: %w", in.Email, err)
		}
		ids[in.Email] = c.ID
	}

	for _, p := range seedPolicies {
		_, err := a.Insurances.Create(ctx, ports.CreateInsuranceInput{
			ClientID:     ids[p.clientEmail],
			PolicyNumber: p.number,
			Coverage:     p.coverage,
			StartDate:    p.start,
			EndDate:      p.end,
		})
		if err == nil {
			res.Insurances++
		} else if !errors.Is(err, domain.ErrConflict) {
			return res, fmt.Errorf("seed policy %s: %w", p.number, err)
		}
	}

	a.Logger.Info().
		Int("users", res.Users).
		Int("clients", res.Clients).
		Int("insurances", res.Insurances).
		Msg("seed complete")
	return res, nil
}

func (a *App) clientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	page, err := a.Clients.FindAll(ctx, ports.ClientFilter{Email: email, Page: ports.Page{Limit: 100}})
	if err != nil {
		return nil, err
	}
	for _, c := range page.Items {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, domain.ErrClientNotFound
}
