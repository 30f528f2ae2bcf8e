package memory

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/storage"
)

// CycleRepository implements cycles.Store over the shared store.
type CycleRepository struct {
	store *Store
}

func NewCycleRepository(store *Store) *CycleRepository {
	return &CycleRepository{store: store}
}

func cycleFields(c *cycles.Cycle) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"tenant_id": c.TenantID,
	}
}

func (r *CycleRepository) list(ctx context.Context, filter storage.Filter) ([]*cycles.Cycle, error) {
	effective, err := r.store.intercept(ctx, storage.KindCycles, filter)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*cycles.Cycle

	for _, cycle := range r.store.cycleRows {
		if matches(effective, cycleFields(cycle)) {
			clone := *cycle
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *CycleRepository) Get(ctx context.Context, id string) (*cycles.Cycle, error) {
	found, err := r.list(ctx, storage.Filter{"id": id})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", cycles.ErrNotFound, id)
	}

	return found[0], nil
}

func (r *CycleRepository) ListByTenant(ctx context.Context, tenantID string) ([]*cycles.Cycle, error) {
	return r.list(ctx, storage.Filter{"tenant_id": tenantID})
}

func (r *CycleRepository) Create(_ context.Context, cycle *cycles.Cycle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *cycle
	r.store.cycleRows[cycle.ID] = &clone

	return nil
}

func (r *CycleRepository) Update(_ context.Context, cycle *cycles.Cycle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.cycleRows[cycle.ID]; !ok {
		return fmt.Errorf("%w: %s", cycles.ErrNotFound, cycle.ID)
	}

	clone := *cycle
	r.store.cycleRows[cycle.ID] = &clone

	return nil
}

func (r *CycleRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.cycleRows, id)

	return nil
}
