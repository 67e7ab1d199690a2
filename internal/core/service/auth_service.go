package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// AuthService turns credentials into session tokens and tokens back into
// identities. Tokens are stateless: logout does not revoke them.
type AuthService struct {
	users  ports.UserService
	tokens ports.TokenIssuer
	guard  ports.LoginGuard
	logger zerolog.Logger
}

// NewAuthService wires the service. guard may be nil to disable throttling.
func NewAuthService(users ports.UserService, tokens ports.TokenIssuer, guard ports.LoginGuard, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, guard: guard, logger: logger}
}

// Login verifies credentials and issues a token. An unknown email and a
// wrong password fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	key := strings.ToLower(input.Email)

	if s.guard != nil {
		allowed, err := s.guard.Allow(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login guard unavailable")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.users.ComparePassword(input.Password, user.PasswordHash) {
		s.recordFailure(ctx, key)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ports.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	if s.guard != nil {
		if err := s.guard.Reset(ctx, key); err != nil {
			s.logger.Warn().Err(err).Msg("login guard reset failed")
		}
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{User: user.Public(), Token: token}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.RecordFailure(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("login guard record failed")
	}
}

// ValidateToken returns the current projection of the token's user, or
// (nil, nil) when the token does not verify or the user is gone.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.PublicUser, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected")
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Logout only checks that the token verifies.
func (s *AuthService) Logout(_ context.Context, token string) error {
	if _, err := s.tokens.Verify(token); err != nil {
		return domain.ErrInvalidToken
	}
	return nil
}

func (s *AuthService) ValidateLoginData(input ports.LoginInput) error {
	switch {
	case input.Email == "":
		return domain.NewValidationError("invalid login data", domain.MsgEmailRequired)
	case input.Password == "":
		return domain.NewValidationError("invalid login data", domain.MsgPasswordRequired)
	case !domain.ValidEmail(input.Email):
		return domain.NewValidationError("invalid login data", domain.MsgEmailInvalid)
	case !domain.ValidPassword(input.Password):
		return domain.NewValidationError("invalid login data", domain.MsgPasswordTooShort)
	}
	return nil
}
