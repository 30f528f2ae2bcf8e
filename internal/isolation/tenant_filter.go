package isolation

import (
	"context"

	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

// TenantFilterKey is the filter field the tenant predicate is merged under.
const TenantFilterKey = "tenant_id"

// TenantFilter conjunctively merges a tenant predicate into reads against
// tenant-scoped kinds. A concrete bound scope always wins, even over an
// explicitly supplied filter value; a global scope adds nothing; an unset
// scope passes the read through untouched (the calling service is
// authoritative).
type TenantFilter struct{}

func NewTenantFilter() *TenantFilter {
	return &TenantFilter{}
}

func (f *TenantFilter) InterceptQuery(ctx context.Context, q *storage.Query) error {
	if !q.Kind.TenantScoped() {
		return nil
	}

	scope := tenancy.CurrentScope(ctx)

	tenantID, ok := scope.TenantID()
	if !ok {
		return nil
	}

	if supplied, exists := q.Filter[TenantFilterKey]; exists && supplied != tenantID {
		log.Warn(ctx, "isolation: overriding caller-supplied tenant filter",
			log.String("kind", string(q.Kind)),
			log.Any("supplied", supplied),
			log.String("bound", tenantID),
		)
	}

	if q.Filter == nil {
		q.Filter = storage.Filter{}
	}

	q.Filter[TenantFilterKey] = tenantID

	return nil
}
