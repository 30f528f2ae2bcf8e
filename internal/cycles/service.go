package cycles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/log"
)

// Service owns the planning-cycle lifecycle. Other services must consult it
// before mutating cycle-linked entities.
//
// The overlap check is read-then-write with no enforced exclusivity: two
// concurrent creators can both pass validation before either commits. A
// storage-level exclusion constraint is the recommended backstop.
type Service struct {
	store      Store
	objectives ObjectiveCounter
}

func NewService(store Store, objectives ObjectiveCounter) *Service {
	return &Service{store: store, objectives: objectives}
}

// CreateInput describes an explicitly created cycle.
type CreateInput struct {
	TenantID  string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// UpdateInput carries the mutable cycle fields; nil means unchanged.
type UpdateInput struct {
	ID        string
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
}

// Summary is the read model for one cycle plus its usage.
type Summary struct {
	Cycle          *Cycle
	ObjectiveCount int
}

// Create validates dates and tenant-wide overlap, then persists a new draft
// cycle.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Cycle, error) {
	if err := authz.AssertCanMutate(ctx, input.TenantID); err != nil {
		return nil, err
	}

	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	cycle := &Cycle{
		ID:        uuid.NewString(),
		TenantID:  input.TenantID,
		Name:      input.Name,
		StartDate: input.StartDate.UTC(),
		EndDate:   input.EndDate.UTC(),
		Status:    StatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.assertNoOverlap(ctx, cycle); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, cycle); err != nil {
		return nil, fmt.Errorf("cycles: create %q: %w", cycle.Name, err)
	}

	log.Info(ctx, "cycle created",
		log.String("cycle_id", cycle.ID),
		log.String("tenant_id", cycle.TenantID),
		log.String("name", cycle.Name),
	)

	return cycle, nil
}

// Update applies field changes. Date changes re-run validity and overlap
// checks against every other cycle in the tenant.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*Cycle, error) {
	cycle, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := authz.AssertCanMutate(ctx, cycle.TenantID); err != nil {
		return nil, err
	}

	datesChanged := false

	if input.Name != nil {
		cycle.Name = *input.Name
	}

	if input.StartDate != nil {
		cycle.StartDate = input.StartDate.UTC()
		datesChanged = true
	}

	if input.EndDate != nil {
		cycle.EndDate = input.EndDate.UTC()
		datesChanged = true
	}

	if datesChanged {
		if err := validateDates(cycle.StartDate, cycle.EndDate); err != nil {
			return nil, err
		}

		if err := s.assertNoOverlap(ctx, cycle); err != nil {
			return nil, err
		}
	}

	cycle.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, cycle); err != nil {
		return nil, fmt.Errorf("cycles: update %s: %w", cycle.ID, err)
	}

	return cycle, nil
}

// UpdateStatus advances the cycle along the transition table. A same-state
// request returns the cycle unchanged.
func (s *Service) UpdateStatus(ctx context.Context, id string, requested Status) (*Cycle, error) {
	cycle, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.AssertCanMutate(ctx, cycle.TenantID); err != nil {
		return nil, err
	}

	if err := Transition(cycle.Status, requested); err != nil {
		return nil, err
	}

	if cycle.Status == requested {
		return cycle, nil
	}

	previous := cycle.Status
	cycle.Status = requested
	cycle.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, cycle); err != nil {
		return nil, fmt.Errorf("cycles: update status of %s: %w", cycle.ID, err)
	}

	log.Info(ctx, "cycle status changed",
		log.String("cycle_id", cycle.ID),
		log.String("from", string(previous)),
		log.String("to", string(requested)),
	)

	return cycle, nil
}

// Delete removes a cycle, unless objectives still reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	cycle, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.AssertCanMutate(ctx, cycle.TenantID); err != nil {
		return err
	}

	linked, err := s.objectives.CountByCycle(ctx, id)
	if err != nil {
		return fmt.Errorf("cycles: count objectives for %s: %w", id, err)
	}

	if linked > 0 {
		return fmt.Errorf("%w: %d objectives still reference cycle %q", ErrHasLinkedObjectives, linked, cycle.Name)
	}

	return s.store.Delete(ctx, id)
}

// GetSummary returns the cycle and the number of objectives attached to it.
func (s *Service) GetSummary(ctx context.Context, id string) (*Summary, error) {
	cycle, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.objectives.CountByCycle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cycles: count objectives for %s: %w", id, err)
	}

	return &Summary{Cycle: cycle, ObjectiveCount: count}, nil
}

// AssertMutable fails when the cycle no longer accepts mutations of linked
// entities. Services mutating cycle-linked data call this first.
func (s *Service) AssertMutable(ctx context.Context, cycleID string) error {
	cycle, err := s.store.Get(ctx, cycleID)
	if err != nil {
		return err
	}

	if !cycle.Status.Mutable() {
		return fmt.Errorf("%w: cycle %q is %s", ErrCycleImmutable, cycle.Name, cycle.Status)
	}

	return nil
}

// validateDates runs before any overlap check.
func validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: both dates must be set", ErrDateOrder)
	}

	if !start.Before(end) {
		return fmt.Errorf("%w: start %s, end %s",
			ErrDateOrder, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	return nil
}

// assertNoOverlap checks the proposed interval against every other cycle of
// the tenant, inclusive on both ends.
func (s *Service) assertNoOverlap(ctx context.Context, proposed *Cycle) error {
	existing, err := s.store.ListByTenant(ctx, proposed.TenantID)
	if err != nil {
		return fmt.Errorf("cycles: list for tenant %s: %w", proposed.TenantID, err)
	}

	for _, other := range existing {
		if other.ID == proposed.ID {
			continue
		}

		if proposed.Overlaps(other) {
			return fmt.Errorf("%w: %q (%s to %s)",
				ErrDateOverlap,
				other.Name,
				other.StartDate.Format(time.DateOnly),
				other.EndDate.Format(time.DateOnly),
			)
		}
	}

	return nil
}
