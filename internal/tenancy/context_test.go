package tenancy

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTenant(t *testing.T) {
	ctx, err := WithTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	scope, ok := ScopeFromContext(ctx)
	require.True(t, ok)
	assert.True(t, scope.IsConcrete())

	tenantID, ok := scope.TenantID()
	require.True(t, ok)
	assert.Equal(t, "tenant-1", tenantID)
}

func TestWithTenantRejectsSentinel(t *testing.T) {
	_, err := WithTenant(context.Background(), GlobalTenantID)
	assert.ErrorIs(t, err, ErrInvalidTenantID)

	_, err = WithTenant(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}

func TestScopeSetOnce(t *testing.T) {
	ctx, err := WithTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	// Same scope is idempotent.
	_, err = WithTenant(ctx, "tenant-1")
	assert.NoError(t, err)

	// Different scope is a conflict.
	_, err = WithTenant(ctx, "tenant-2")
	assert.Error(t, err)

	_, err = WithGlobalScope(ctx)
	assert.Error(t, err)
}

func TestUnsetScope(t *testing.T) {
	scope, ok := ScopeFromContext(context.Background())
	assert.False(t, ok)
	assert.True(t, scope.IsZero())
	assert.False(t, scope.IsGlobal())
	assert.False(t, scope.IsConcrete())

	_, ok = scope.TenantID()
	assert.False(t, ok)
}

func TestGlobalScope(t *testing.T) {
	ctx, err := WithGlobalScope(context.Background())
	require.NoError(t, err)

	scope := CurrentScope(ctx)
	assert.True(t, scope.IsGlobal())
	assert.False(t, scope.IsConcrete())
}

func TestRunWithTenant(t *testing.T) {
	got, err := RunWithTenant(context.Background(), "tenant-1", func(ctx context.Context) (string, error) {
		return CurrentScope(ctx).String(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant:tenant-1", got)

	// The binding does not escape the closure.
	_, ok := ScopeFromContext(context.Background())
	assert.False(t, ok)
}

// Scopes bound for concurrent operations must never bleed into each other.
func TestScopeIsolationAcrossGoroutines(t *testing.T) {
	tenants := []string{"tenant-a", "tenant-b", "tenant-c", "tenant-d"}

	var wg sync.WaitGroup
	for range 64 {
		for _, tenantID := range tenants {
			wg.Add(1)

			go func() {
				defer wg.Done()

				got, err := RunWithTenant(context.Background(), tenantID, func(ctx context.Context) (string, error) {
					scope := CurrentScope(ctx)

					id, ok := scope.TenantID()
					require.True(t, ok)

					return id, nil
				})
				require.NoError(t, err)
				assert.Equal(t, tenantID, got)
			}()
		}
	}

	wg.Wait()
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("tenant-1"))
	assert.ErrorIs(t, ValidateTenantID(GlobalTenantID), ErrInvalidTenantID)
	assert.ErrorIs(t, ValidateTenantID(""), ErrInvalidTenantID)
}
