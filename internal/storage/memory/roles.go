package memory

import (
	"context"

	"github.com/goalkeep/goalkeep/internal/authz"
)

// RoleAssignmentRepository implements authz.RoleAssignmentStore over the
// shared store.
type RoleAssignmentRepository struct {
	store *Store
}

func NewRoleAssignmentRepository(store *Store) *RoleAssignmentRepository {
	return &RoleAssignmentRepository{store: store}
}

func (r *RoleAssignmentRepository) ListByUser(_ context.Context, userID string) ([]authz.RoleAssignment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []authz.RoleAssignment

	for _, assignment := range r.store.assignments {
		if assignment.UserID == userID {
			out = append(out, assignment)
		}
	}

	return out, nil
}

func (r *RoleAssignmentRepository) Create(_ context.Context, assignment authz.RoleAssignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.assignments = append(r.store.assignments, assignment)

	return nil
}

func (r *RoleAssignmentRepository) Delete(_ context.Context, userID string, role authz.Role, scopeType authz.ScopeType, scopeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, a := range r.store.assignments {
		if a.UserID == userID && a.Role == role && a.ScopeType == scopeType && a.ScopeID == scopeID {
			r.store.assignments = append(r.store.assignments[:i], r.store.assignments[i+1:]...)
			return nil
		}
	}

	return nil
}
