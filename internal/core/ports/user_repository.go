package ports

import (
	"context"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// UserFilter carries the query parameters for listing users.
type UserFilter struct {
	Email string      // optional: case-insensitive partial match
	Role  domain.Role // optional: exact match
	Page
}

// UserPatch lists the fields of a user to overwrite; nil means unchanged.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	Role         *domain.Role
}

// UserRepository defines persistence operations for users.
// Finders return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns a page of users matching filter and the total count,
	// newest first.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
