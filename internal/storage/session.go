package storage

import "context"

// SessionState is the ambient per-connection state an optional storage-level
// row-security mechanism reads. Implementations must scope the state to the
// connection checked out for the current operation, never to the pool.
type SessionState interface {
	// SetTenantScope mirrors the operation's tenant scope and superuser
	// flag into the connection session. tenantID is empty for the global
	// scope.
	SetTenantScope(ctx context.Context, tenantID string, superuser bool) error
}
