package authz

import "errors"

var (
	// ErrTenantMismatch is returned when an operation bound to one tenant
	// targets data belonging to another.
	ErrTenantMismatch = errors.New("tenant mismatch")
	// ErrSuperuserWriteForbidden is returned for any write attempted under
	// the global scope. Superuser identity is read-only everywhere.
	ErrSuperuserWriteForbidden = errors.New("superuser identity is read-only")
	// ErrNoTenantResolved is returned when a write cannot be attributed to
	// any tenant.
	ErrNoTenantResolved = errors.New("no tenant resolved")
)
