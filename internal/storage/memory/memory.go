// Package memory is a complete in-process store implementation. It backs
// tests and the database-less dev mode, and honors the same query
// interceptor chain as the postgres implementation.
package memory

import (
	"context"
	"sync"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/storage"
)

// Store holds every collection behind one lock. The per-entity repositories
// share it; reads on tenant-scoped kinds run through the interceptor chain
// before matching.
type Store struct {
	mu sync.RWMutex

	interceptors storage.Interceptors
	session      *SessionState

	users       map[string]*authz.User
	assignments []authz.RoleAssignment
	objectives  map[string]*biz.Objective
	keyResults  map[string]*biz.KeyResult
	cycleRows   map[string]*cycles.Cycle
}

func NewStore(interceptors storage.Interceptors) *Store {
	return &Store{
		interceptors: interceptors,
		session:      &SessionState{},
		users:        map[string]*authz.User{},
		objectives:   map[string]*biz.Objective{},
		keyResults:   map[string]*biz.KeyResult{},
		cycleRows:    map[string]*cycles.Cycle{},
	}
}

// SessionState records the mirrored scope, standing in for a storage
// engine's per-connection session. Exposed so tests can assert on the
// second defense layer.
type SessionState struct {
	mu        sync.Mutex
	TenantID  string
	Superuser bool
	Mirrored  bool
}

func (s *SessionState) SetTenantScope(_ context.Context, tenantID string, superuser bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TenantID = tenantID
	s.Superuser = superuser
	s.Mirrored = true

	return nil
}

// Session returns the recorded session state.
func (s *Store) Session() *SessionState {
	return s.session
}

func (s *Store) intercept(ctx context.Context, kind storage.Kind, filter storage.Filter) (storage.Filter, error) {
	q := &storage.Query{Kind: kind, Filter: filter.Clone(), Session: s.session}
	if err := s.interceptors.Apply(ctx, q); err != nil {
		return nil, err
	}

	return q.Filter, nil
}

func matches(filter storage.Filter, fields map[string]any) bool {
	for key, want := range filter {
		if fields[key] != want {
			return false
		}
	}

	return true
}
