package memory

import (
	"context"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type ClientRepository struct {
	s *Store
}

func (r *ClientRepository) emailTakenLocked(email, exceptID string) bool {
	if email == "" {
		return false
	}
	for id, e := range r.s.clients {
		if id != exceptID && e.v.Email == email {
			return true
		}
	}
	return false
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.clients[c.ID]; exists {
		return nil, domain.NewConflictError("client already exists")
	}
	if r.emailTakenLocked(c.Email, "") {
		return nil, domain.ErrEmailInUse
	}
	r.s.clients[c.ID] = entry[domain.Client]{v: *c, seq: r.s.nextSeqLocked()}
	return ptr(*c), nil
}

func (r *ClientRepository) FindByID(_ context.Context, id string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return ptr(e.v), nil
}

func (r *ClientRepository) List(_ context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sorted(r.s.clients, func(c *domain.Client) time.Time { return c.CreatedAt }, func(c *domain.Client) bool {
		if filter.Search != "" &&
			!containsFold(c.Name, filter.Search) &&
			!containsFold(c.Email, filter.Search) &&
			!containsFold(c.Phone, filter.Search) {
			return false
		}
		if filter.Name != "" && !containsFold(c.Name, filter.Name) {
			return false
		}
		if filter.Email != "" && !containsFold(c.Email, filter.Email) {
			return false
		}
		return filter.Phone == "" || containsFold(c.Phone, filter.Phone)
	})

	page := paginate(all, filter.Page)
	out := make([]*domain.Client, len(page))
	for i := range page {
		out[i] = ptr(page[i])
	}
	return out, int64(len(all)), nil
}

func (r *ClientRepository) Update(_ context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	if patch.Name != nil {
		e.v.Name = *patch.Name
	}
	if patch.Email != nil {
		if r.emailTakenLocked(*patch.Email, id) {
			return nil, domain.ErrEmailInUse
		}
		e.v.Email = *patch.Email
	}
	if patch.Phone != nil {
		e.v.Phone = *patch.Phone
	}
	e.v.UpdatedAt = time.Now().UTC()
	r.s.clients[id] = e
	return ptr(e.v), nil
}

// Delete removes the client and cascades to its insurances.
func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.s.clients, id)
	for insID, e := range r.s.insurances {
		if e.v.ClientID == id {
			delete(r.s.insurances, insID)
		}
	}
	return nil
}

func (r *ClientRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.clients[id]
	return ok, nil
}

func (r *ClientRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.emailTakenLocked(email, ""), nil
}
