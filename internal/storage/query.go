package storage

import (
	"context"
	"maps"
)

// Kind names a persisted collection.
type Kind string

const (
	KindUsers           Kind = "users"
	KindRoleAssignments Kind = "role_assignments"
	KindObjectives      Kind = "objectives"
	KindKeyResults      Kind = "key_results"
	KindCycles          Kind = "cycles"
)

// tenantScopedKinds is the fixed allow-list the isolation layer acts on.
// Key results are absent on purpose: they carry no tenant id of their own
// and are always reached through their parent objective.
var tenantScopedKinds = map[Kind]struct{}{
	KindObjectives: {},
	KindCycles:     {},
}

// TenantScoped reports whether the kind is on the isolation allow-list.
func (k Kind) TenantScoped() bool {
	_, ok := tenantScopedKinds[k]
	return ok
}

// Filter is a conjunctive field-equality filter.
type Filter map[string]any

// Clone returns a shallow copy so interceptors can rewrite without aliasing
// the caller's map.
func (f Filter) Clone() Filter {
	if f == nil {
		return Filter{}
	}

	return maps.Clone(f)
}

// Query describes one read (list/find/count) about to execute. Session is
// the ambient session state of the connection checked out for this
// operation, when the backing store has one; nil otherwise.
type Query struct {
	Kind    Kind
	Filter  Filter
	Session SessionState
}

// QueryInterceptor rewrites or vetoes a read before it executes. Writes
// never pass through interceptors; the mutation guard owns write-side
// correctness.
type QueryInterceptor interface {
	InterceptQuery(ctx context.Context, q *Query) error
}

// QueryInterceptorFunc adapts a function to the QueryInterceptor interface.
type QueryInterceptorFunc func(ctx context.Context, q *Query) error

func (f QueryInterceptorFunc) InterceptQuery(ctx context.Context, q *Query) error {
	return f(ctx, q)
}

// Interceptors is an ordered chain applied before a read executes.
type Interceptors []QueryInterceptor

// Apply runs the chain in registration order.
func (is Interceptors) Apply(ctx context.Context, q *Query) error {
	for _, interceptor := range is {
		if err := interceptor.InterceptQuery(ctx, q); err != nil {
			return err
		}
	}

	return nil
}
