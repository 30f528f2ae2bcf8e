package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/visibility"
)

// KeyResult measures progress against its parent objective. It has no
// visibility and no tenant id of its own; both are always derived from the
// parent. That is an invariant, not a default.
type KeyResult struct {
	ID          string
	OwnerID     string
	ObjectiveID string
	Title       string
	Target      float64
	Current     float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KeyResultStore is the key-result persistence collaborator.
type KeyResultStore interface {
	Get(ctx context.Context, id string) (*KeyResult, error)
	ListByObjective(ctx context.Context, objectiveID string) ([]*KeyResult, error)
	Create(ctx context.Context, keyResult *KeyResult) error
	Update(ctx context.Context, keyResult *KeyResult) error
	Delete(ctx context.Context, id string) error
}

type KeyResultService struct {
	*AbstractService

	store      KeyResultStore
	objectives ObjectiveStore
	evaluator  *visibility.Evaluator
	cycles     *cycles.Service
}

func NewKeyResultService(
	resolver *authz.Resolver,
	store KeyResultStore,
	objectives ObjectiveStore,
	cycleService *cycles.Service,
) *KeyResultService {
	return &KeyResultService{
		AbstractService: &AbstractService{resolver: resolver},
		store:           store,
		objectives:      objectives,
		evaluator:       visibility.NewEvaluator(),
		cycles:          cycleService,
	}
}

// parent loads the owning objective. The lookup runs inside the isolation
// layer, so a cross-tenant parent id cannot be probed through the child.
func (s *KeyResultService) parent(ctx context.Context, objectiveID string) (*Objective, error) {
	objective, err := s.objectives.Get(ctx, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("biz: load parent objective %s: %w", objectiveID, err)
	}

	return objective, nil
}

// assertParentVisible evaluates the key result's visibility as exactly the
// parent objective's decision.
func (s *KeyResultService) assertParentVisible(ctx context.Context, parent *Objective) error {
	req, err := s.requesterFromContext(ctx)
	if err != nil {
		return err
	}

	if !s.evaluator.CanViewKeyResult(ctx, parent.Descriptor(ctx), req) {
		return fmt.Errorf("%w: objective %s", visibility.ErrPrivateAccessDenied, parent.ID)
	}

	return nil
}

// assertParentMutable runs the write-side checks the parent implies: the
// tenant boundary and the cycle gate.
func (s *KeyResultService) assertParentMutable(ctx context.Context, parent *Objective) error {
	if err := authz.AssertCanMutate(ctx, parent.TenantID); err != nil {
		return err
	}

	if parent.CycleID != "" {
		if err := s.cycles.AssertMutable(ctx, parent.CycleID); err != nil {
			return err
		}
	}

	return nil
}

type CreateKeyResultInput struct {
	ObjectiveID string
	Title       string
	Target      float64
}

func (s *KeyResultService) Create(ctx context.Context, input CreateKeyResultInput) (*KeyResult, error) {
	parent, err := s.parent(ctx, input.ObjectiveID)
	if err != nil {
		return nil, err
	}

	if err := s.assertParentMutable(ctx, parent); err != nil {
		return nil, err
	}

	req, err := s.requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}

	keyResult := &KeyResult{
		ID:          uuid.NewString(),
		OwnerID:     req.UserID,
		ObjectiveID: parent.ID,
		Title:       input.Title,
		Target:      input.Target,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.store.Create(ctx, keyResult); err != nil {
		return nil, fmt.Errorf("biz: create key result: %w", err)
	}

	return keyResult, nil
}

func (s *KeyResultService) Get(ctx context.Context, id string) (*KeyResult, error) {
	keyResult, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	parent, err := s.parent(ctx, keyResult.ObjectiveID)
	if err != nil {
		return nil, err
	}

	if err := s.assertParentVisible(ctx, parent); err != nil {
		return nil, err
	}

	return keyResult, nil
}

// ListByObjective returns the key results of one objective, gated by the
// parent's visibility decision.
func (s *KeyResultService) ListByObjective(ctx context.Context, objectiveID string) ([]*KeyResult, error) {
	parent, err := s.parent(ctx, objectiveID)
	if err != nil {
		return nil, err
	}

	if err := s.assertParentVisible(ctx, parent); err != nil {
		return nil, err
	}

	return s.store.ListByObjective(ctx, objectiveID)
}

type UpdateKeyResultInput struct {
	ID      string
	Title   *string
	Target  *float64
	Current *float64
}

func (s *KeyResultService) Update(ctx context.Context, input UpdateKeyResultInput) (*KeyResult, error) {
	keyResult, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	parent, err := s.parent(ctx, keyResult.ObjectiveID)
	if err != nil {
		return nil, err
	}

	if err := s.assertParentMutable(ctx, parent); err != nil {
		return nil, err
	}

	if input.Title != nil {
		keyResult.Title = *input.Title
	}

	if input.Target != nil {
		keyResult.Target = *input.Target
	}

	if input.Current != nil {
		keyResult.Current = *input.Current
	}

	keyResult.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, keyResult); err != nil {
		return nil, fmt.Errorf("biz: update key result %s: %w", input.ID, err)
	}

	return keyResult, nil
}

func (s *KeyResultService) Delete(ctx context.Context, id string) error {
	keyResult, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	parent, err := s.parent(ctx, keyResult.ObjectiveID)
	if err != nil {
		return err
	}

	if err := s.assertParentMutable(ctx, parent); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}
