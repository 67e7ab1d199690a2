package ports

import (
	"context"

	"github.com/travelguard/backoffice/internal/core/domain"
)

type CreateClientInput struct {
	Name  string
	Email string
	Phone string
}

// UpdateClientInput carries the fields to change on a client; nil means
// unchanged.
type UpdateClientInput struct {
	Name  *string
	Email *string
	Phone *string
}

type ClientService interface {
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	GetWithInsurances(ctx context.Context, id string) (*domain.ClientWithInsurances, error)
	FindAll(ctx context.Context, filter ClientFilter) (*Paged[*domain.Client], error)
	Update(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	ValidateClientData(input CreateClientInput) error
}
