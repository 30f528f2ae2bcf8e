package isolation

import (
	"context"

	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

// mirrorKey guards against the mirror re-triggering itself when setting
// session state causes another intercepted operation.
type mirrorKey struct{}

func withMirrorInProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, mirrorKey{}, true)
}

func mirrorInProgress(ctx context.Context) bool {
	active, _ := ctx.Value(mirrorKey{}).(bool)
	return active
}

// SessionMirror best-effort copies the operation's tenant scope and
// superuser flag into the connection session state, so an optional
// storage-level row-security mechanism can enforce the same boundary
// independently. Mirroring failures are logged and discarded: a
// defense-in-depth layer must not become a new source of outage for the
// authoritative checks. Register it ahead of TenantFilter so the session is
// set before the predicate evaluates.
type SessionMirror struct{}

func NewSessionMirror() *SessionMirror {
	return &SessionMirror{}
}

func (m *SessionMirror) InterceptQuery(ctx context.Context, q *storage.Query) error {
	if !q.Kind.TenantScoped() || q.Session == nil {
		return nil
	}

	if mirrorInProgress(ctx) {
		return nil
	}

	scope := tenancy.CurrentScope(ctx)
	if scope.IsZero() {
		return nil
	}

	tenantID, _ := scope.TenantID()

	if err := q.Session.SetTenantScope(withMirrorInProgress(ctx), tenantID, scope.IsGlobal()); err != nil {
		log.Warn(ctx, "isolation: session mirror failed, continuing without storage-level enforcement",
			log.String("kind", string(q.Kind)),
			log.Cause(err),
		)
	}

	return nil
}
