package ports

import (
	"context"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// TokenClaims is the identity embedded in a session token.
type TokenClaims struct {
	UserID    string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims) (string, error)
	// Verify fails for expired, tampered or malformed tokens.
	Verify(token string) (*TokenClaims, error)
}

// LoginGuard throttles repeated failed logins for the same key.
type LoginGuard interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
