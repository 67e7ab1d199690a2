package ports

import (
	"context"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
)

// InsuranceFilter carries the query parameters for listing insurances.
// Zero values disable the corresponding predicate.
type InsuranceFilter struct {
	ClientID     string                 // exact
	PolicyNumber string                 // partial
	Coverage     string                 // partial
	Status       domain.InsuranceStatus // as read at Now; stored status when Now is zero
	StartFrom    time.Time              // start_date >= StartFrom
	StartTo      time.Time              // start_date <= StartTo
	EndFrom      time.Time              // end_date >= EndFrom
	EndTo        time.Time              // end_date <= EndTo
	// Now is the instant Status is evaluated at: active means stored active
	// with end_date >= Now, expired also covers stored active with
	// end_date < Now.
	Now time.Time
	Page
}

// InsurancePatch lists the fields of a policy to overwrite; nil means unchanged.
type InsurancePatch struct {
	ClientID     *string
	PolicyNumber *string
	Coverage     *string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *domain.InsuranceStatus
}

// InsuranceRepository defines persistence operations for insurance policies.
type InsuranceRepository interface {
	Create(ctx context.Context, i *domain.Insurance) (*domain.Insurance, error)
	FindByID(ctx context.Context, id string) (*domain.Insurance, error)
	FindByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error)
	// FindByClientID returns every policy of a client, newest first.
	FindByClientID(ctx context.Context, clientID string) ([]*domain.Insurance, error)
	List(ctx context.Context, filter InsuranceFilter) ([]*domain.Insurance, int64, error)
	Update(ctx context.Context, id string, patch InsurancePatch) (*domain.Insurance, error)
	UpdateStatus(ctx context.Context, id string, status domain.InsuranceStatus) (*domain.Insurance, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error)
}
