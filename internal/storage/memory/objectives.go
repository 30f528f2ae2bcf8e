package memory

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/storage"
)

// ObjectiveRepository implements biz.ObjectiveStore over the shared store.
// Every read funnels through list so the interceptor chain sees it.
type ObjectiveRepository struct {
	store *Store
}

func NewObjectiveRepository(store *Store) *ObjectiveRepository {
	return &ObjectiveRepository{store: store}
}

func objectiveFields(o *biz.Objective) map[string]any {
	return map[string]any{
		"id":        o.ID,
		"tenant_id": o.TenantID,
		"owner_id":  o.OwnerID,
		"cycle_id":  o.CycleID,
	}
}

func (r *ObjectiveRepository) list(ctx context.Context, filter storage.Filter) ([]*biz.Objective, error) {
	effective, err := r.store.intercept(ctx, storage.KindObjectives, filter)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*biz.Objective

	for _, objective := range r.store.objectives {
		if matches(effective, objectiveFields(objective)) {
			clone := *objective
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *ObjectiveRepository) List(ctx context.Context, filter storage.Filter) ([]*biz.Objective, error) {
	return r.list(ctx, filter)
}

func (r *ObjectiveRepository) Get(ctx context.Context, id string) (*biz.Objective, error) {
	found, err := r.list(ctx, storage.Filter{"id": id})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: objective %s", biz.ErrNotFound, id)
	}

	return found[0], nil
}

func (r *ObjectiveRepository) Create(_ context.Context, objective *biz.Objective) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *objective
	r.store.objectives[objective.ID] = &clone

	return nil
}

func (r *ObjectiveRepository) Update(_ context.Context, objective *biz.Objective) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.objectives[objective.ID]; !ok {
		return fmt.Errorf("%w: objective %s", biz.ErrNotFound, objective.ID)
	}

	clone := *objective
	r.store.objectives[objective.ID] = &clone

	return nil
}

func (r *ObjectiveRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.objectives, id)

	return nil
}

func (r *ObjectiveRepository) CountByCycle(ctx context.Context, cycleID string) (int, error) {
	found, err := r.list(ctx, storage.Filter{"cycle_id": cycleID})
	if err != nil {
		return 0, err
	}

	return len(found), nil
}
