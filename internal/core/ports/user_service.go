package ports

import (
	"context"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// CreateUserInput carries the data needed to create a user. An empty Role
// falls back to domain.DefaultRole.
type CreateUserInput struct {
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries the fields to change on a user; nil means unchanged.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Role     *string
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context, filter UserFilter) (*Paged[*domain.User], error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ValidatePassword(password string) bool
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}
