package ports

import (
	"context"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// ClientFilter carries the query parameters for listing clients. All
// string predicates are case-insensitive partial matches.
type ClientFilter struct {
	Search string // optional: matches name, email or phone
	Name   string
	Email  string
	Phone  string
	Page
}

// ClientPatch lists the fields of a client to overwrite; nil means
// unchanged and a pointer to "" clears an optional field.
type ClientPatch struct {
	Name  *string
	Email *string
	Phone *string
}

// ClientRepository defines persistence operations for clients. Delete
// also removes the client's insurances.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, int64, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
