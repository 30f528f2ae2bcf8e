package cycles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/log"
)

// candidate is one calendar-aligned window the generator may materialize.
type candidate struct {
	name  string
	start time.Time
	end   time.Time
}

// EnsureStandardCycles enumerates every calendar month, quarter, and year
// intersecting the window, in that order, and creates each as a generated
// draft cycle unless an identically-dated or overlapping cycle already
// exists. Because months are enumerated first, the quarters and years they
// cover are skipped by the overlap rule. Re-running over the same window is
// a no-op.
func (s *Service) EnsureStandardCycles(ctx context.Context, tenantID string, start, end time.Time) ([]*Cycle, error) {
	if err := authz.AssertCanMutate(ctx, tenantID); err != nil {
		return nil, err
	}

	if err := validateDates(start, end); err != nil {
		return nil, err
	}

	existing, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("cycles: list for tenant %s: %w", tenantID, err)
	}

	start, end = start.UTC(), end.UTC()

	var created []*Cycle

	for _, c := range standardCandidates(start, end) {
		if overlapsAny(c, existing) {
			continue
		}

		cycle := &Cycle{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			Name:        c.name,
			StartDate:   c.start,
			EndDate:     c.end,
			Status:      StatusDraft,
			IsGenerated: true,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}

		if err := s.store.Create(ctx, cycle); err != nil {
			return created, fmt.Errorf("cycles: create generated cycle %q: %w", c.name, err)
		}

		existing = append(existing, cycle)
		created = append(created, cycle)
	}

	log.Info(ctx, "standard cycles ensured",
		log.String("tenant_id", tenantID),
		log.Int("created", len(created)),
	)

	return created, nil
}

func overlapsAny(c candidate, existing []*Cycle) bool {
	probe := &Cycle{StartDate: c.start, EndDate: c.end}

	for _, other := range existing {
		if probe.Overlaps(other) {
			return true
		}
	}

	return false
}

// standardCandidates deterministically enumerates months, then quarters,
// then years intersecting [start, end].
func standardCandidates(start, end time.Time) []candidate {
	var out []candidate

	// Months.
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		monthEnd := cursor.AddDate(0, 1, -1)
		out = append(out, candidate{
			name:  cursor.Format("January 2006"),
			start: cursor,
			end:   monthEnd,
		})
		cursor = cursor.AddDate(0, 1, 0)
	}

	// Quarters.
	quarterMonth := (int(start.Month())-1)/3*3 + 1
	cursor = time.Date(start.Year(), time.Month(quarterMonth), 1, 0, 0, 0, 0, time.UTC)

	for !cursor.After(end) {
		quarterEnd := cursor.AddDate(0, 3, -1)
		out = append(out, candidate{
			name:  fmt.Sprintf("Q%d %d", (int(cursor.Month())-1)/3+1, cursor.Year()),
			start: cursor,
			end:   quarterEnd,
		})
		cursor = cursor.AddDate(0, 3, 0)
	}

	// Years.
	for year := start.Year(); year <= end.Year(); year++ {
		out = append(out, candidate{
			name:  fmt.Sprintf("%d", year),
			start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		})
	}

	return out
}
