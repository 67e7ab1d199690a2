package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type ClientService struct {
	repo       ports.ClientRepository
	insurances ports.InsuranceRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewClientService(repo ports.ClientRepository, insurances ports.InsuranceRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, insurances: insurances, logger: logger, now: time.Now}
}

// Create stores a client. A supplied email must be unique across clients.
func (s *ClientService) Create(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	if err := s.ValidateClientData(input); err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := s.ensureEmailFree(ctx, input.Email); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Client{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", created.ID).Msg("client created")
	return created, nil
}

func (s *ClientService) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

// Get is FindByID that fails with ErrClientNotFound when the client is absent.
func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	return c, nil
}

func (s *ClientService) GetWithInsurances(ctx context.Context, id string) (*domain.ClientWithInsurances, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	policies, err := s.insurances.FindByClientID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list client insurances: %w", err)
	}

	now := s.now()
	for _, p := range policies {
		p.Status = p.EffectiveStatus(now)
	}
	if policies == nil {
		policies = []*domain.Insurance{}
	}
	return &domain.ClientWithInsurances{Client: *c, Insurances: policies}, nil
}

func (s *ClientService) FindAll(ctx context.Context, filter ports.ClientFilter) (*ports.Paged[*domain.Client], error) {
	filter.Page = filter.Page.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return ports.NewPaged(clients, total, filter.Page), nil
}

// Update applies the supplied fields. An empty email or phone clears it.
func (s *ClientService) Update(ctx context.Context, id string, input ports.UpdateClientInput) (*domain.Client, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		patch   ports.ClientPatch
		details []string
	)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			details = append(details, domain.MsgNameRequired)
		}
		patch.Name = &name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" && !domain.ValidEmail(email) {
			details = append(details, domain.MsgEmailInvalid)
		}
		if email != current.Email {
			patch.Email = &email
		}
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		patch.Phone = &phone
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("invalid client data", details...)
	}

	if patch.Email != nil && *patch.Email != "" {
		if err := s.ensureEmailFree(ctx, *patch.Email); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", id).Msg("client updated")
	return updated, nil
}

// Delete removes the client together with its insurances.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if !exists {
		return domain.ErrClientNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

// ValidateClientData checks the name is non-blank and, when present, the
// email shape.
func (s *ClientService) ValidateClientData(input ports.CreateClientInput) error {
	var details []string
	if domain.Blank(input.Name) {
		details = append(details, domain.MsgNameRequired)
	}
	if email := strings.TrimSpace(input.Email); email != "" && !domain.ValidEmail(email) {
		details = append(details, domain.MsgEmailInvalid)
	}
	if len(details) > 0 {
		return domain.NewValidationError("invalid client data", details...)
	}
	return nil
}

func (s *ClientService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check client email: %w", err)
	}
	if exists {
		return domain.ErrEmailInUse
	}
	return nil
}
