package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/tenancy"
	"github.com/goalkeep/goalkeep/internal/visibility"
)

// Objective is a tenant-scoped goal. The tenant id is fixed at creation and
// inherited transitively by everything nested under it.
type Objective struct {
	ID         string
	OwnerID    string
	TenantID   string
	Title      string
	CycleID    string
	Visibility visibility.Level
	Whitelist  []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Descriptor is the objective's visibility-decision input. Visibility is
// normalized here, at the load boundary, so the evaluator only sees
// canonical levels.
func (o *Objective) Descriptor(ctx context.Context) visibility.Descriptor {
	return visibility.Descriptor{
		ID:        o.ID,
		OwnerID:   o.OwnerID,
		TenantID:  o.TenantID,
		Level:     visibility.NormalizeLevel(ctx, o.Visibility),
		Whitelist: o.Whitelist,
	}
}

// ObjectiveStore is the objective persistence collaborator. Reads pass
// through the registered query interceptors inside the implementation.
type ObjectiveStore interface {
	Get(ctx context.Context, id string) (*Objective, error)
	List(ctx context.Context, filter storage.Filter) ([]*Objective, error)
	Create(ctx context.Context, objective *Objective) error
	Update(ctx context.Context, objective *Objective) error
	Delete(ctx context.Context, id string) error
	CountByCycle(ctx context.Context, cycleID string) (int, error)
}

type ObjectiveService struct {
	*AbstractService

	store     ObjectiveStore
	evaluator *visibility.Evaluator
	cycles    *cycles.Service
}

func NewObjectiveService(resolver *authz.Resolver, store ObjectiveStore, cycleService *cycles.Service) *ObjectiveService {
	return &ObjectiveService{
		AbstractService: &AbstractService{resolver: resolver},
		store:           store,
		evaluator:       visibility.NewEvaluator(),
		cycles:          cycleService,
	}
}

// CreateObjectiveInput describes a new objective. The owner is the current
// requester.
type CreateObjectiveInput struct {
	TenantID   string
	Title      string
	CycleID    string
	Visibility visibility.Level
	Whitelist  []string
}

func (s *ObjectiveService) Create(ctx context.Context, input CreateObjectiveInput) (*Objective, error) {
	if err := tenancy.ValidateTenantID(input.TenantID); err != nil {
		return nil, err
	}

	if err := authz.AssertCanMutate(ctx, input.TenantID); err != nil {
		return nil, err
	}

	req, err := s.requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if input.CycleID != "" {
		if err := s.cycles.AssertMutable(ctx, input.CycleID); err != nil {
			return nil, err
		}
	}

	objective := &Objective{
		ID:         uuid.NewString(),
		OwnerID:    req.UserID,
		TenantID:   input.TenantID,
		Title:      input.Title,
		CycleID:    input.CycleID,
		Visibility: visibility.NormalizeLevel(ctx, input.Visibility),
		Whitelist:  input.Whitelist,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := s.store.Create(ctx, objective); err != nil {
		return nil, fmt.Errorf("biz: create objective: %w", err)
	}

	log.Info(ctx, "objective created",
		log.String("objective_id", objective.ID),
		log.String("tenant_id", objective.TenantID),
	)

	return objective, nil
}

// Get returns one objective, subject to the per-entity visibility decision.
func (s *ObjectiveService) Get(ctx context.Context, id string) (*Objective, error) {
	objective, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req, err := s.requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.CanView(ctx, objective.Descriptor(ctx), req) {
		return nil, fmt.Errorf("%w: objective %s", visibility.ErrPrivateAccessDenied, id)
	}

	return objective, nil
}

// List returns the objectives the requester may view. The tenant predicate
// is merged by the isolation layer inside the store; the visibility filter
// decides row by row on top of that.
func (s *ObjectiveService) List(ctx context.Context, filter storage.Filter) ([]*Objective, error) {
	req, err := s.requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}

	objectives, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return lo.Filter(objectives, func(o *Objective, _ int) bool {
		return s.evaluator.CanView(ctx, o.Descriptor(ctx), req)
	}), nil
}

// UpdateObjectiveInput carries mutable objective fields; nil means
// unchanged. The tenant id is never updatable.
type UpdateObjectiveInput struct {
	ID         string
	Title      *string
	CycleID    *string
	Visibility *visibility.Level
	Whitelist  *[]string
}

func (s *ObjectiveService) Update(ctx context.Context, input UpdateObjectiveInput) (*Objective, error) {
	objective, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := authz.AssertCanMutate(ctx, objective.TenantID); err != nil {
		return nil, err
	}

	if objective.CycleID != "" {
		if err := s.cycles.AssertMutable(ctx, objective.CycleID); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		objective.Title = *input.Title
	}

	if input.CycleID != nil {
		if *input.CycleID != "" {
			if err := s.cycles.AssertMutable(ctx, *input.CycleID); err != nil {
				return nil, err
			}
		}

		objective.CycleID = *input.CycleID
	}

	if input.Visibility != nil {
		objective.Visibility = visibility.NormalizeLevel(ctx, *input.Visibility)
	}

	if input.Whitelist != nil {
		objective.Whitelist = *input.Whitelist
	}

	objective.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, objective); err != nil {
		return nil, fmt.Errorf("biz: update objective %s: %w", input.ID, err)
	}

	return objective, nil
}

func (s *ObjectiveService) Delete(ctx context.Context, id string) error {
	objective, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.AssertCanMutate(ctx, objective.TenantID); err != nil {
		return err
	}

	if objective.CycleID != "" {
		if err := s.cycles.AssertMutable(ctx, objective.CycleID); err != nil {
			return err
		}
	}

	return s.store.Delete(ctx, id)
}
