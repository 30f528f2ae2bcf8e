package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalkeep/goalkeep/internal/tenancy"
)

func TestAssertScopeCanMutate(t *testing.T) {
	tests := []struct {
		name     string
		scope    tenancy.Scope
		target   string
		expected error
	}{
		{
			name:     "matching concrete tenant",
			scope:    tenancy.TenantScope("tenant-1"),
			target:   "tenant-1",
			expected: nil,
		},
		{
			name:     "differing concrete tenant",
			scope:    tenancy.TenantScope("tenant-1"),
			target:   "tenant-2",
			expected: ErrTenantMismatch,
		},
		{
			name:     "global scope is read-only",
			scope:    tenancy.GlobalScope(),
			target:   "tenant-1",
			expected: ErrSuperuserWriteForbidden,
		},
		{
			name:     "unset scope",
			scope:    tenancy.Scope{},
			target:   "tenant-1",
			expected: ErrNoTenantResolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertScopeCanMutate(tt.scope, tt.target)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestAssertCanMutate(t *testing.T) {
	ctx, err := tenancy.WithTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	assert.NoError(t, AssertCanMutate(ctx, "tenant-1"))
	assert.ErrorIs(t, AssertCanMutate(ctx, "tenant-2"), ErrTenantMismatch)

	// No scope bound at all.
	assert.ErrorIs(t, AssertCanMutate(context.Background(), "tenant-1"), ErrNoTenantResolved)

	globalCtx, err := tenancy.WithGlobalScope(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, AssertCanMutate(globalCtx, "tenant-1"), ErrSuperuserWriteForbidden)
}
