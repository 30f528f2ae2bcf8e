package tenancy

import (
	"errors"
	"fmt"
)

// GlobalTenantID is the sentinel scope id for platform-wide superuser
// operations. It is never a valid tenant id.
const GlobalTenantID = "global"

// ErrInvalidTenantID is returned for empty ids and for the global sentinel.
var ErrInvalidTenantID = errors.New("tenancy: invalid tenant id")

// scopeKind discriminates the three meaningful scope states.
type scopeKind int

const (
	// scopeUnset means no scoping decision has been made; downstream logic
	// is authoritative.
	scopeUnset scopeKind = iota
	// scopeGlobal means the requester is a platform-wide superuser and no
	// tenant filter applies.
	scopeGlobal
	// scopeTenant means a concrete tenant; strict equality is required
	// everywhere.
	scopeTenant
)

// Scope is the tenant scope bound to one operation. The zero value is unset.
type Scope struct {
	kind     scopeKind
	tenantID string
}

// TenantScope returns a concrete tenant scope.
func TenantScope(tenantID string) Scope {
	return Scope{kind: scopeTenant, tenantID: tenantID}
}

// GlobalScope returns the platform-wide superuser scope.
func GlobalScope() Scope {
	return Scope{kind: scopeGlobal}
}

// IsZero reports whether no scoping decision has been made.
func (s Scope) IsZero() bool {
	return s.kind == scopeUnset
}

// IsGlobal reports whether the scope is the superuser sentinel.
func (s Scope) IsGlobal() bool {
	return s.kind == scopeGlobal
}

// IsConcrete reports whether the scope names a single tenant.
func (s Scope) IsConcrete() bool {
	return s.kind == scopeTenant
}

// TenantID returns the concrete tenant id, if any.
func (s Scope) TenantID() (string, bool) {
	if s.kind != scopeTenant {
		return "", false
	}

	return s.tenantID, true
}

// String returns a representation suitable for audit logs.
func (s Scope) String() string {
	switch s.kind {
	case scopeGlobal:
		return GlobalTenantID
	case scopeTenant:
		return "tenant:" + s.tenantID
	default:
		return "unset"
	}
}

// ValidateTenantID rejects the empty string and the global sentinel.
// A real tenant identifier must never collide with the sentinel.
func ValidateTenantID(tenantID string) error {
	if tenantID == "" || tenantID == GlobalTenantID {
		return fmt.Errorf("%w: %q", ErrInvalidTenantID, tenantID)
	}

	return nil
}
