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

// InsuranceService issues and maintains policies. Status is decided from
// the dates at creation and only moves along the domain state machine; an
// active policy past its end date is reported as expired on every read.
type InsuranceService struct {
	repo    ports.InsuranceRepository
	clients ports.ClientRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewInsuranceService(repo ports.InsuranceRepository, clients ports.ClientRepository, logger zerolog.Logger) *InsuranceService {
	return &InsuranceService{repo: repo, clients: clients, logger: logger, now: time.Now}
}

func (s *InsuranceService) Create(ctx context.Context, input ports.CreateInsuranceInput) (*domain.Insurance, error) {
	input.ClientID = strings.TrimSpace(input.ClientID)
	input.PolicyNumber = strings.TrimSpace(input.PolicyNumber)
	input.Coverage = strings.TrimSpace(input.Coverage)

	var missing []string
	if input.ClientID == "" {
		missing = append(missing, "client_id is required")
	}
	if input.PolicyNumber == "" {
		missing = append(missing, "policy_number is required")
	}
	if input.Coverage == "" {
		missing = append(missing, "coverage is required")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("client, policy number and coverage are required", missing...)
	}

	missing = missing[:0]
	if input.StartDate.IsZero() {
		missing = append(missing, "start_date is required")
	}
	if input.EndDate.IsZero() {
		missing = append(missing, "end_date is required")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("start and end dates are required", missing...)
	}
	if err := s.CheckDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	if err := s.ensureClientExists(ctx, input.ClientID); err != nil {
		return nil, err
	}
	if err := s.ensurePolicyNumberFree(ctx, input.PolicyNumber); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Insurance{
		ID:           uuid.NewString(),
		ClientID:     input.ClientID,
		PolicyNumber: input.PolicyNumber,
		Coverage:     input.Coverage,
		StartDate:    input.StartDate.UTC(),
		EndDate:      input.EndDate.UTC(),
		Status:       domain.InitialStatus(input.EndDate, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("insurance_id", created.ID).
		Str("policy_number", created.PolicyNumber).
		Str("status", string(created.Status)).
		Msg("insurance created")
	return created, nil
}

func (s *InsuranceService) FindByID(ctx context.Context, id string) (*domain.Insurance, error) {
	ins, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(ins), nil
}

// Get is FindByID that fails with ErrInsuranceNotFound when absent.
func (s *InsuranceService) Get(ctx context.Context, id string) (*domain.Insurance, error) {
	ins, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, domain.ErrInsuranceNotFound
	}
	return ins, nil
}

func (s *InsuranceService) FindByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error) {
	ins, err := s.repo.FindByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return nil, err
	}
	return s.project(ins), nil
}

func (s *InsuranceService) GetInsuranceByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error) {
	ins, err := s.FindByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, domain.ErrInsuranceNotFound
	}
	return ins, nil
}

func (s *InsuranceService) FindAll(ctx context.Context, filter ports.InsuranceFilter) (*ports.Paged[*domain.Insurance], error) {
	filter.Page = filter.Page.Normalize()
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("invalid insurance filter", "status must be one of: active, expired, canceled")
	}
	filter.Now = s.now()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list insurances: %w", err)
	}
	for i := range items {
		items[i] = s.project(items[i])
	}
	return ports.NewPaged(items, total, filter.Page), nil
}

func (s *InsuranceService) GetInsurancesByClientID(ctx context.Context, clientID string) ([]*domain.Insurance, error) {
	items, err := s.repo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client insurances: %w", err)
	}
	for i := range items {
		items[i] = s.project(items[i])
	}
	if items == nil {
		items = []*domain.Insurance{}
	}
	return items, nil
}

// Update applies the supplied fields. The resulting date pair must stay
// ordered and a supplied status must be a legal transition.
func (s *InsuranceService) Update(ctx context.Context, id string, input ports.UpdateInsuranceInput) (*domain.Insurance, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ValidateInsuranceData(input); err != nil {
		return nil, err
	}

	var patch ports.InsurancePatch
	if input.Coverage != nil {
		coverage := strings.TrimSpace(*input.Coverage)
		patch.Coverage = &coverage
	}
	if input.PolicyNumber != nil {
		pn := strings.TrimSpace(*input.PolicyNumber)
		if pn != current.PolicyNumber {
			if err := s.ensurePolicyNumberFree(ctx, pn); err != nil {
				return nil, err
			}
			patch.PolicyNumber = &pn
		}
	}
	if input.ClientID != nil {
		cid := strings.TrimSpace(*input.ClientID)
		if cid != current.ClientID {
			if err := s.ensureClientExists(ctx, cid); err != nil {
				return nil, err
			}
			patch.ClientID = &cid
		}
	}

	if input.StartDate != nil || input.EndDate != nil {
		start, end := current.StartDate, current.EndDate
		if input.StartDate != nil {
			start = input.StartDate.UTC()
			patch.StartDate = &start
		}
		if input.EndDate != nil {
			end = input.EndDate.UTC()
			patch.EndDate = &end
		}
		if err := s.CheckDateRange(start, end); err != nil {
			return nil, err
		}
	}

	if input.Status != nil {
		next, _ := domain.ParseInsuranceStatus(*input.Status)
		if next != current.Status {
			if !current.Status.CanTransitionTo(next) {
				return nil, &domain.Error{
					Kind:    domain.KindInvalidState,
					Message: domain.ErrInvalidTransition.Message,
					Details: []string{fmt.Sprintf("cannot move from %s to %s", current.Status, next)},
				}
			}
			patch.Status = &next
		}
	}
	// A lapsed policy keeps reading as expired whatever its new dates are.
	if patch.Status == nil && current.Status == domain.InsuranceExpired {
		expired := domain.InsuranceExpired
		patch.Status = &expired
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("insurance_id", id).Msg("insurance updated")
	return s.project(updated), nil
}

// CancelInsurance moves a policy to canceled. Canceling twice fails.
func (s *InsuranceService) CancelInsurance(ctx context.Context, id string) (*domain.Insurance, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.InsuranceCanceled {
		return nil, domain.ErrAlreadyCanceled
	}

	updated, err := s.repo.UpdateStatus(ctx, id, domain.InsuranceCanceled)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("insurance_id", id).Str("previous_status", string(current.Status)).Msg("insurance canceled")
	return updated, nil
}

func (s *InsuranceService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check insurance: %w", err)
	}
	if !exists {
		return domain.ErrInsuranceNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("insurance_id", id).Msg("insurance deleted")
	return nil
}

// CheckDateRange fails unless end is strictly after start.
func (s *InsuranceService) CheckDateRange(start, end time.Time) error {
	if !end.After(start) {
		return domain.NewValidationError("invalid date range", "end_date must be after start_date")
	}
	return nil
}

// ValidateInsuranceData checks the fields that are present.
func (s *InsuranceService) ValidateInsuranceData(input ports.UpdateInsuranceInput) error {
	var details []string
	if input.ClientID != nil && domain.Blank(*input.ClientID) {
		details = append(details, "client_id must not be blank")
	}
	if input.PolicyNumber != nil && domain.Blank(*input.PolicyNumber) {
		details = append(details, "policy_number must not be blank")
	}
	if input.Coverage != nil && domain.Blank(*input.Coverage) {
		details = append(details, "coverage must not be blank")
	}
	if input.Status != nil {
		if _, ok := domain.ParseInsuranceStatus(*input.Status); !ok {
			details = append(details, "status must be one of: active, expired, canceled")
		}
	}
	if input.StartDate != nil && input.EndDate != nil && !input.EndDate.After(*input.StartDate) {
		details = append(details, "end_date must be after start_date")
	}
	if len(details) > 0 {
		return domain.NewValidationError("invalid insurance data", details...)
	}
	return nil
}

func (s *InsuranceService) project(ins *domain.Insurance) *domain.Insurance {
	if ins == nil {
		return nil
	}
	ins.Status = ins.EffectiveStatus(s.now())
	return ins
}

func (s *InsuranceService) ensureClientExists(ctx context.Context, clientID string) error {
	ok, err := s.clients.ExistsByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if !ok {
		return domain.ErrClientNotFound
	}
	return nil
}

func (s *InsuranceService) ensurePolicyNumberFree(ctx context.Context, policyNumber string) error {
	taken, err := s.repo.ExistsByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return fmt.Errorf("check policy number: %w", err)
	}
	if taken {
		return domain.ErrPolicyNumberInUse
	}
	return nil
}
