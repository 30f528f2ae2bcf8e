package memory

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/server/biz"
)

// KeyResultRepository implements biz.KeyResultStore over the shared store.
// Key results carry no tenant id, so no interceptor runs here; the service
// layer reaches them strictly through the parent objective.
type KeyResultRepository struct {
	store *Store
}

func NewKeyResultRepository(store *Store) *KeyResultRepository {
	return &KeyResultRepository{store: store}
}

func (r *KeyResultRepository) Get(_ context.Context, id string) (*biz.KeyResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	keyResult, ok := r.store.keyResults[id]
	if !ok {
		return nil, fmt.Errorf("%w: key result %s", biz.ErrNotFound, id)
	}

	clone := *keyResult

	return &clone, nil
}

func (r *KeyResultRepository) ListByObjective(_ context.Context, objectiveID string) ([]*biz.KeyResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*biz.KeyResult

	for _, keyResult := range r.store.keyResults {
		if keyResult.ObjectiveID == objectiveID {
			clone := *keyResult
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *KeyResultRepository) Create(_ context.Context, keyResult *biz.KeyResult) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *keyResult
	r.store.keyResults[keyResult.ID] = &clone

	return nil
}

func (r *KeyResultRepository) Update(_ context.Context, keyResult *biz.KeyResult) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.keyResults[keyResult.ID]; !ok {
		return fmt.Errorf("%w: key result %s", biz.ErrNotFound, keyResult.ID)
	}

	clone := *keyResult
	r.store.keyResults[keyResult.ID] = &clone

	return nil
}

func (r *KeyResultRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.keyResults, id)

	return nil
}
