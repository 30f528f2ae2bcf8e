package cycles

import (
	"fmt"
)

// Status is the lifecycle state of a planning cycle.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusLocked   Status = "locked"
	StatusArchived Status = "archived"
)

// IsValidStatus checks if a status slug is one of the closed status set.
func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusDraft, StatusActive, StatusLocked, StatusArchived:
		return true
	default:
		return false
	}
}

// transition defines a valid state change.
type transition struct {
	Src Status
	Dst Status
}

// transitions is the complete forward-only transition table. Status never
// moves backwards and never skips a state.
var transitions = []transition{
	{Src: StatusDraft, Dst: StatusActive},
	{Src: StatusActive, Dst: StatusLocked},
	{Src: StatusLocked, Dst: StatusArchived},
}

// Transition validates a requested status change. A same-state request is a
// permitted no-op; every other pair outside the table fails with an error
// naming both states.
func Transition(current, requested Status) error {
	if current == requested {
		return nil
	}

	for _, t := range transitions {
		if t.Src == current && t.Dst == requested {
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requested)
}

// Mutable reports whether entities linked to a cycle in this status may
// still be mutated. Locking the cycle freezes its objectives.
func (s Status) Mutable() bool {
	return s == StatusDraft || s == StatusActive
}
