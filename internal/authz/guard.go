package authz

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/tenancy"
)

// AssertScopeCanMutate is the authoritative write-side tenant check. It is
// pure over its inputs:
//
//   - global scope is rejected unconditionally (read-only identity),
//   - unset scope is rejected (a write must be attributable to a tenant),
//   - a concrete scope must equal the target tenant exactly.
func AssertScopeCanMutate(scope tenancy.Scope, targetTenantID string) error {
	if scope.IsGlobal() {
		return fmt.Errorf("%w: cannot mutate tenant %s", ErrSuperuserWriteForbidden, targetTenantID)
	}

	tenantID, ok := scope.TenantID()
	if !ok {
		return fmt.Errorf("%w: cannot attribute write to tenant %s", ErrNoTenantResolved, targetTenantID)
	}

	if tenantID != targetTenantID {
		return fmt.Errorf("%w: scope %s, target %s", ErrTenantMismatch, tenantID, targetTenantID)
	}

	return nil
}

// AssertCanMutate applies AssertScopeCanMutate to the scope bound to the
// current operation. Every mutating operation calls this before touching
// storage.
func AssertCanMutate(ctx context.Context, targetTenantID string) error {
	return AssertScopeCanMutate(tenancy.CurrentScope(ctx), targetTenantID)
}
