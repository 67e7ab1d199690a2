package memory

import (
	"context"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type InsuranceRepository struct {
	s *Store
}

func insuranceCreatedAt(i *domain.Insurance) time.Time { return i.CreatedAt }

func (r *InsuranceRepository) policyTakenLocked(policyNumber, exceptID string) bool {
	for id, e := range r.s.insurances {
		if id != exceptID && e.v.PolicyNumber == policyNumber {
			return true
		}
	}
	return false
}

func (r *InsuranceRepository) Create(_ context.Context, i *domain.Insurance) (*domain.Insurance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[i.ClientID]; !ok {
		return nil, domain.ErrClientNotFound
	}
	if r.policyTakenLocked(i.PolicyNumber, "") {
		return nil, domain.ErrPolicyNumberInUse
	}
	r.s.insurances[i.ID] = entry[domain.Insurance]{v: *i, seq: r.s.nextSeqLocked()}
	return ptr(*i), nil
}

func (r *InsuranceRepository) FindByID(_ context.Context, id string) (*domain.Insurance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.insurances[id]
	if !ok {
		return nil, nil
	}
	return ptr(e.v), nil
}

func (r *InsuranceRepository) FindByPolicyNumber(_ context.Context, policyNumber string) (*domain.Insurance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.insurances {
		if e.v.PolicyNumber == policyNumber {
			return ptr(e.v), nil
		}
	}
	return nil, nil
}

func (r *InsuranceRepository) FindByClientID(_ context.Context, clientID string) ([]*domain.Insurance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sorted(r.s.insurances, insuranceCreatedAt, func(i *domain.Insurance) bool {
		return i.ClientID == clientID
	})
	out := make([]*domain.Insurance, len(all))
	for i := range all {
		out[i] = ptr(all[i])
	}
	return out, nil
}

func (r *InsuranceRepository) List(_ context.Context, f ports.InsuranceFilter) ([]*domain.Insurance, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sorted(r.s.insurances, insuranceCreatedAt, func(i *domain.Insurance) bool {
		switch {
		case f.ClientID != "" && i.ClientID != f.ClientID:
			return false
		case f.PolicyNumber != "" && !containsFold(i.PolicyNumber, f.PolicyNumber):
			return false
		case f.Coverage != "" && !containsFold(i.Coverage, f.Coverage):
			return false
		case f.Status != "" && statusAt(i, f.Now) != f.Status:
			return false
		case !f.StartFrom.IsZero() && i.StartDate.Before(f.StartFrom):
			return false
		case !f.StartTo.IsZero() && i.StartDate.After(f.StartTo):
			return false
		case !f.EndFrom.IsZero() && i.EndDate.Before(f.EndFrom):
			return false
		case !f.EndTo.IsZero() && i.EndDate.After(f.EndTo):
			return false
		}
		return true
	})

	page := paginate(all, f.Page)
	out := make([]*domain.Insurance, len(page))
	for i := range page {
		out[i] = ptr(page[i])
	}
	return out, int64(len(all)), nil
}

func (r *InsuranceRepository) Update(_ context.Context, id string, patch ports.InsurancePatch) (*domain.Insurance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.insurances[id]
	if !ok {
		return nil, domain.ErrInsuranceNotFound
	}
	if patch.ClientID != nil {
		if _, ok := r.s.clients[*patch.ClientID]; !ok {
			return nil, domain.ErrClientNotFound
		}
		e.v.ClientID = *patch.ClientID
	}
	if patch.PolicyNumber != nil {
		if r.policyTakenLocked(*patch.PolicyNumber, id) {
			return nil, domain.ErrPolicyNumberInUse
		}
		e.v.PolicyNumber = *patch.PolicyNumber
	}
	if patch.Coverage != nil {
		e.v.Coverage = *patch.Coverage
	}
	if patch.StartDate != nil {
		e.v.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		e.v.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		e.v.Status = *patch.Status
	}
	e.v.UpdatedAt = time.Now().UTC()
	r.s.insurances[id] = e
	return ptr(e.v), nil
}

func (r *InsuranceRepository) UpdateStatus(ctx context.Context, id string, status domain.InsuranceStatus) (*domain.Insurance, error) {
	return r.Update(ctx, id, ports.InsurancePatch{Status: &status})
}

func (r *InsuranceRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.insurances[id]; !ok {
		return domain.ErrInsuranceNotFound
	}
	delete(r.s.insurances, id)
	return nil
}

func (r *InsuranceRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.insurances[id]
	return ok, nil
}

func (r *InsuranceRepository) ExistsByPolicyNumber(_ context.Context, policyNumber string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.policyTakenLocked(policyNumber, ""), nil
}

func statusAt(i *domain.Insurance, now time.Time) domain.InsuranceStatus {
	if now.IsZero() {
		return i.Status
	}
	return i.EffectiveStatus(now)
}
