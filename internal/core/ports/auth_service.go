package ports

import (
	"context"

	"github.com/travelguard/backoffice/internal/core/domain"
)

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	User  *domain.PublicUser
	Token string
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// ValidateToken returns (nil, nil) for any token that does not verify or
	// whose user no longer exists.
	ValidateToken(ctx context.Context, token string) (*domain.PublicUser, error)
	Logout(ctx context.Context, token string) error
	ValidateLoginData(input LoginInput) error
}
