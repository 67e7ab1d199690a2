// Package memory is an in-memory implementation of the repository ports. It
// is safe for concurrent use and is intended for tests and local development.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// Store holds every entity behind one lock so that cascades stay atomic.
type Store struct {
	mu         sync.RWMutex
	seq        int64
	users      map[string]entry[domain.User]
	clients    map[string]entry[domain.Client]
	insurances map[string]entry[domain.Insurance]
}

type entry[T any] struct {
	v   T
	seq int64
}

var (
	_ ports.UserRepository      = (*UserRepository)(nil)
	_ ports.ClientRepository    = (*ClientRepository)(nil)
	_ ports.InsuranceRepository = (*InsuranceRepository)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:      make(map[string]entry[domain.User]),
		clients:    make(map[string]entry[domain.Client]),
		insurances: make(map[string]entry[domain.Insurance]),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Clients() *ClientRepository { return &ClientRepository{s: s} }
func (s *Store) Insurances() *InsuranceRepository { return &InsuranceRepository{s: s} }

func (s *Store) nextSeqLocked() int64 {
	s.seq++
	return s.seq
}

// sorted returns values ordered newest first.
func sorted[T any](m map[string]entry[T], createdAt func(*T) time.Time, keep func(*T) bool) []T {
	list := make([]entry[T], 0, len(m))
	for _, e := range m {
		if keep == nil || keep(&e.v) {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		ci, cj := createdAt(&list[i].v), createdAt(&list[j].v)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return list[i].seq > list[j].seq
	})
	out := make([]T, len(list))
	for i := range list {
		out[i] = list[i].v
	}
	return out
}

// paginate slices items according to p.
func paginate[T any](items []T, p ports.Page) []T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func ptr[T any](v T) *T { return &v }
