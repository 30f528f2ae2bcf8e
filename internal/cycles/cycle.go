package cycles

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidTransition is returned for a status change outside the
	// transition table.
	ErrInvalidTransition = errors.New("invalid cycle status transition")
	// ErrDateOrder is returned when the start date is not strictly before
	// the end date, or either date is missing.
	ErrDateOrder = errors.New("cycle start date must be before end date")
	// ErrDateOverlap is returned when a cycle's dates intersect another
	// cycle in the same tenant.
	ErrDateOverlap = errors.New("cycle dates overlap an existing cycle")
	// ErrHasLinkedObjectives blocks deletion of a cycle that objectives
	// still reference.
	ErrHasLinkedObjectives = errors.New("cycle has linked objectives")
	// ErrCycleImmutable blocks mutation of entities linked to a locked or
	// archived cycle.
	ErrCycleImmutable = errors.New("cycle no longer accepts mutations")
	// ErrNotFound is returned when a cycle id does not resolve.
	ErrNotFound = errors.New("cycle not found")
)

// Cycle is a time-boxed planning period objectives attach to. The tenant id
// is fixed at creation and never reassigned.
type Cycle struct {
	ID          string
	TenantID    string
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
	IsGenerated bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports inclusive interval intersection with another cycle.
func (c *Cycle) Overlaps(other *Cycle) bool {
	return !c.StartDate.After(other.EndDate) && !other.StartDate.After(c.EndDate)
}

// Store is the cycle persistence collaborator.
type Store interface {
	Get(ctx context.Context, id string) (*Cycle, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Cycle, error)
	Create(ctx context.Context, cycle *Cycle) error
	Update(ctx context.Context, cycle *Cycle) error
	Delete(ctx context.Context, id string) error
}

// ObjectiveCounter reports how many objectives reference a cycle. Implemented
// by the objective store.
type ObjectiveCounter interface {
	CountByCycle(ctx context.Context, cycleID string) (int, error)
}
