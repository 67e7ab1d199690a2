package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// UserService enforces account invariants before delegating to the repository.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	cost   int
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, cost: bcrypt.DefaultCost, now: time.Now}
}

// Create validates input, rejects a duplicate email and stores the user with
// a bcrypt hash of the password. The returned record includes the hash.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	var details []string
	switch {
	case input.Email == "":
		details = append(details, domain.MsgEmailRequired)
	case !domain.ValidEmail(input.Email):
		details = append(details, domain.MsgEmailInvalid)
	}
	switch {
	case input.Password == "":
		details = append(details, domain.MsgPasswordRequired)
	case !s.ValidatePassword(input.Password):
		details = append(details, domain.MsgPasswordTooShort)
	}
	role := domain.DefaultRole
	if input.Role != "" {
		r, ok := domain.ParseRole(input.Role)
		if !ok {
			details = append(details, domain.MsgRoleInvalid)
		}
		role = r
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("invalid user data", details...)
	}

	exists, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check user email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailInUse
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Get is FindByID that fails with ErrUserNotFound when the user is absent.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) FindAll(ctx context.Context, filter ports.UserFilter) (*ports.Paged[*domain.User], error) {
	filter.Page = filter.Page.Normalize()
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, domain.NewValidationError("invalid user filter", domain.MsgRoleInvalid)
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPaged(users, total, filter.Page), nil
}

// Update applies the supplied fields. A changed email is re-validated and
// re-checked for uniqueness; a new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		patch   ports.UserPatch
		details []string
	)
	if input.Email != nil && *input.Email != current.Email {
		if !domain.ValidEmail(*input.Email) {
			details = append(details, domain.MsgEmailInvalid)
		}
		patch.Email = input.Email
	}
	if input.Password != nil && !s.ValidatePassword(*input.Password) {
		details = append(details, domain.MsgPasswordTooShort)
	}
	if input.Role != nil {
		r, ok := domain.ParseRole(*input.Role)
		if !ok {
			details = append(details, domain.MsgRoleInvalid)
		}
		patch.Role = &r
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("invalid user data", details...)
	}

	if patch.Email != nil {
		exists, err := s.repo.ExistsByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, fmt.Errorf("check user email: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailInUse
		}
	}
	if input.Password != nil {
		hash, err := s.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) ValidatePassword(password string) bool {
	return domain.ValidPassword(password)
}

func (s *UserService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
