package memory

import (
	"context"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[u.ID]; exists {
		return nil, domain.NewConflictError("user already exists")
	}
	for _, e := range r.s.users {
		if e.v.Email == u.Email {
			return nil, domain.ErrEmailInUse
		}
	}
	r.s.users[u.ID] = entry[domain.User]{v: *u, seq: r.s.nextSeqLocked()}
	return ptr(*u), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return ptr(e.v), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.users {
		if e.v.Email == email {
			return ptr(e.v), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sorted(r.s.users, func(u *domain.User) time.Time { return u.CreatedAt }, func(u *domain.User) bool {
		if filter.Email != "" && !containsFold(u.Email, filter.Email) {
			return false
		}
		return filter.Role == "" || u.Role == filter.Role
	})

	page := paginate(all, filter.Page)
	out := make([]*domain.User, len(page))
	for i := range page {
		out[i] = ptr(page[i])
	}
	return out, int64(len(all)), nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.s.users {
			if otherID != id && other.v.Email == *patch.Email {
				return nil, domain.ErrEmailInUse
			}
		}
		e.v.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		e.v.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		e.v.Role = *patch.Role
	}
	e.v.UpdatedAt = time.Now().UTC()
	r.s.users[id] = e
	return ptr(e.v), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.users[id]
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	return u != nil, err
}
