package cycles

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardCandidates(t *testing.T) {
	candidates := standardCandidates(date(2026, time.February, 10), date(2026, time.April, 5))

	var names []string
	for _, c := range candidates {
		names = append(names, c.name)
	}

	expected := []string{
		"February 2026", "March 2026", "April 2026",
		"Q1 2026", "Q2 2026",
		"2026",
	}
	assert.Equal(t, expected, names)
}

func TestStandardCandidatesDates(t *testing.T) {
	candidates := standardCandidates(date(2026, time.March, 1), date(2026, time.March, 31))

	require.NotEmpty(t, candidates)
	assert.Equal(t, "March 2026", candidates[0].name)
	assert.Equal(t, date(2026, time.March, 1), candidates[0].start)
	assert.Equal(t, date(2026, time.March, 31), candidates[0].end)
}

func TestEnsureStandardCycles(t *testing.T) {
	service, _, _ := newTestService()
	ctx := tenantCtx(t, "t1")

	created, err := service.EnsureStandardCycles(ctx, "t1", date(2026, time.January, 1), date(2026, time.March, 31))
	require.NoError(t, err)

	// Months are enumerated first; the quarter and year they cover are
	// skipped by the overlap rule.
	var names []string
	for _, c := range created {
		names = append(names, c.Name)
		assert.True(t, c.IsGenerated)
		assert.Equal(t, StatusDraft, c.Status)
		assert.Equal(t, "t1", c.TenantID)
	}

	assert.Equal(t, []string{"January 2026", "February 2026", "March 2026"}, names)
}

func TestEnsureStandardCyclesIdempotent(t *testing.T) {
	service, store, _ := newTestService()
	ctx := tenantCtx(t, "t1")

	window := []time.Time{date(2026, time.January, 1), date(2026, time.June, 30)}

	_, err := service.EnsureStandardCycles(ctx, "t1", window[0], window[1])
	require.NoError(t, err)

	after, err := store.ListByTenant(ctx, "t1")
	require.NoError(t, err)

	again, err := service.EnsureStandardCycles(ctx, "t1", window[0], window[1])
	require.NoError(t, err)
	assert.Empty(t, again, "second run must create nothing")

	final, err := store.ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, len(after), len(final))
}

func TestEnsureStandardCyclesRespectsExistingCycles(t *testing.T) {
	service, _, _ := newTestService()
	ctx := tenantCtx(t, "t1")

	// A hand-created cycle spanning February blocks that month (and
	// everything overlapping it).
	_, err := service.Create(ctx, CreateInput{
		TenantID:  "t1",
		Name:      "Sprint 7",
		StartDate: date(2026, time.February, 1),
		EndDate:   date(2026, time.February, 28),
	})
	require.NoError(t, err)

	created, err := service.EnsureStandardCycles(ctx, "t1", date(2026, time.January, 1), date(2026, time.March, 31))
	require.NoError(t, err)

	var names []string
	for _, c := range created {
		names = append(names, c.Name)
	}

	if diff := cmp.Diff([]string{"January 2026", "March 2026"}, names); diff != "" {
		t.Errorf("unexpected generated cycles (-want +got):\n%s", diff)
	}
}

// Accepted cycles in one tenant never intersect, whatever mix of explicit
// creation and generation produced them.
func TestAcceptedCyclesNeverOverlap(t *testing.T) {
	service, store, _ := newTestService()
	ctx := tenantCtx(t, "t1")

	_, err := service.Create(ctx, CreateInput{
		TenantID:  "t1",
		Name:      "Kickoff",
		StartDate: date(2026, time.January, 10),
		EndDate:   date(2026, time.January, 20),
	})
	require.NoError(t, err)

	_, err = service.EnsureStandardCycles(ctx, "t1", date(2026, time.January, 1), date(2026, time.April, 30))
	require.NoError(t, err)

	all, err := store.ListByTenant(ctx, "t1")
	require.NoError(t, err)

	for i, a := range all {
		for _, b := range all[i+1:] {
			assert.False(t, a.Overlaps(b), "%q overlaps %q", a.Name, b.Name)
		}
	}
}
