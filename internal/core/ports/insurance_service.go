package ports

import (
	"context"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// CreateInsuranceInput carries the data needed to issue a policy. Zero
// dates count as missing. Status is never accepted from the caller.
type CreateInsuranceInput struct {
	ClientID     string
	PolicyNumber string
	Coverage     string
	StartDate    time.Time
	EndDate      time.Time
}

// UpdateInsuranceInput carries the fields to change on a policy; nil means
// unchanged.
type UpdateInsuranceInput struct {
	ClientID     *string
	PolicyNumber *string
	Coverage     *string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *string
}

type InsuranceService interface {
	Create(ctx context.Context, input CreateInsuranceInput) (*domain.Insurance, error)
	FindByID(ctx context.Context, id string) (*domain.Insurance, error)
	Get(ctx context.Context, id string) (*domain.Insurance, error)
	FindByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error)
	GetInsuranceByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error)
	FindAll(ctx context.Context, filter InsuranceFilter) (*Paged[*domain.Insurance], error)
	GetInsurancesByClientID(ctx context.Context, clientID string) ([]*domain.Insurance, error)
	Update(ctx context.Context, id string, input UpdateInsuranceInput) (*domain.Insurance, error)
	CancelInsurance(ctx context.Context, id string) (*domain.Insurance, error)
	Delete(ctx context.Context, id string) error
	CheckDateRange(start, end time.Time) error
	ValidateInsuranceData(input UpdateInsuranceInput) error
}
