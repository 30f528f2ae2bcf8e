package tenancy

import (
	"context"
	"fmt"
)

// scopeKey is an unexported key type to prevent external forgery.
type scopeKey struct{}

// WithTenant binds a concrete tenant scope, with set-once semantics: binding
// a different scope over an existing one is a conflict, binding the same
// scope is idempotent. Set-once prevents scope mixing within one operation.
func WithTenant(ctx context.Context, tenantID string) (context.Context, error) {
	if err := ValidateTenantID(tenantID); err != nil {
		return ctx, err
	}

	return withScope(ctx, TenantScope(tenantID))
}

// WithGlobalScope binds the platform-wide superuser scope.
func WithGlobalScope(ctx context.Context) (context.Context, error) {
	return withScope(ctx, GlobalScope())
}

func withScope(ctx context.Context, scope Scope) (context.Context, error) {
	if existing, ok := ScopeFromContext(ctx); ok {
		if existing != scope {
			return ctx, fmt.Errorf("tenancy: scope conflict: existing=%s, new=%s", existing, scope)
		}

		return ctx, nil // Same scope, idempotent.
	}

	return context.WithValue(ctx, scopeKey{}, scope), nil
}

// ScopeFromContext reads the bound scope. ok is false when no scoping
// decision has been made for this operation.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(Scope)
	return scope, ok
}

// CurrentScope reads the bound scope, returning the zero (unset) scope when
// none is bound.
func CurrentScope(ctx context.Context) Scope {
	scope, _ := ScopeFromContext(ctx)
	return scope
}

// RunWithTenant executes fn with a concrete tenant scope bound for the
// duration of the call and everything causally descended from it.
func RunWithTenant[T any](ctx context.Context, tenantID string, fn func(ctx context.Context) (T, error)) (T, error) {
	scopeCtx, err := WithTenant(ctx, tenantID)
	if err != nil {
		var zero T
		return zero, err
	}

	return fn(scopeCtx)
}

// RunWithGlobalScope executes fn with the superuser scope bound.
func RunWithGlobalScope[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	scopeCtx, err := WithGlobalScope(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	return fn(scopeCtx)
}
