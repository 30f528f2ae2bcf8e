package isolation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

func TestTenantFilterConcreteScope(t *testing.T) {
	ctx, err := tenancy.WithTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	q := &storage.Query{Kind: storage.KindObjectives, Filter: storage.Filter{"owner_id": "u1"}}
	require.NoError(t, NewTenantFilter().InterceptQuery(ctx, q))

	assert.Equal(t, "tenant-1", q.Filter[TenantFilterKey])
	assert.Equal(t, "u1", q.Filter["owner_id"])
}

func TestTenantFilterOverridesSuppliedValue(t *testing.T) {
	ctx, err := tenancy.WithTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	// Defense in depth: the bound scope wins over whatever the caller put
	// in the filter.
	q := &storage.Query{Kind: storage.KindObjectives, Filter: storage.Filter{TenantFilterKey: "tenant-2"}}
	require.NoError(t, NewTenantFilter().InterceptQuery(ctx, q))

	assert.Equal(t, "tenant-1", q.Filter[TenantFilterKey])
}

func TestTenantFilterGlobalScope(t *testing.T) {
	ctx, err := tenancy.WithGlobalScope(context.Background())
	require.NoError(t, err)

	q := &storage.Query{Kind: storage.KindObjectives}
	require.NoError(t, NewTenantFilter().InterceptQuery(ctx, q))

	_, exists := q.Filter[TenantFilterKey]
	assert.False(t, exists)
}

func TestTenantFilterUnsetScope(t *testing.T) {
	q := &storage.Query{Kind: storage.KindObjectives}
	require.NoError(t, NewTenantFilter().InterceptQuery(context.Background(), q))

	_, exists := q.Filter[TenantFilterKey]
	assert.False(t, exists)
}

func TestTenantFilterIgnoresUnscopedKinds(t *testing.T) {
	ctx, err := tenancy.WithTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	for _, kind := range []storage.Kind{storage.KindUsers, storage.KindRoleAssignments, storage.KindKeyResults} {
		q := &storage.Query{Kind: kind}
		require.NoError(t, NewTenantFilter().InterceptQuery(ctx, q))
		assert.Nil(t, q.Filter, "kind %s must pass through untouched", kind)
	}
}
