package visibility

import (
	"context"
	"errors"
	"slices"

	"github.com/samber/lo"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

// ErrPrivateAccessDenied is raised by callers when a requester asks for a
// specific entity the evaluator denies.
var ErrPrivateAccessDenied = errors.New("access to private entity denied")

// Descriptor is the per-entity input to a visibility decision. Key results
// carry no descriptor of their own; they are always evaluated through their
// parent objective's descriptor.
type Descriptor struct {
	ID        string
	OwnerID   string
	TenantID  string
	Level     Level
	Whitelist []string
}

// Requester identifies who is asking: the user, the tenant scope bound to
// the operation, and the resolved authorization context.
type Requester struct {
	UserID string
	Scope  tenancy.Scope
	Auth   *authz.UserAuthorizationContext
}

func (r Requester) memberOfTenant(tenantID string) bool {
	if id, ok := r.Scope.TenantID(); ok && id == tenantID {
		return true
	}

	return r.Auth != nil && r.Auth.MemberOfTenant(tenantID)
}

func (r Requester) isSuperuser() bool {
	return r.Auth != nil && r.Auth.IsSuperuser
}

func (r Requester) isTenantAdmin(tenantID string) bool {
	return r.Auth != nil && r.Auth.IsTenantAdmin(tenantID)
}

// Evaluator decides per-entity view access. It holds no state; decisions are
// pure over the descriptor and requester.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// CanView applies the fixed decision order, first match wins:
//
//  1. concrete requester tenant differing from the entity's tenant: deny
//     (a global requester skips this check),
//  2. platform superuser: allow,
//  3. owner: allow,
//  4. private: allow only for tenant admins or whitelisted users,
//  5. tenant-public (canonical or via deprecated alias): allow for any
//     member of the tenant,
//  6. otherwise deny.
func (e *Evaluator) CanView(ctx context.Context, d Descriptor, req Requester) bool {
	allowed := e.evaluate(ctx, d, req)

	log.Debug(ctx, "visibility: decision",
		log.String("entity", d.ID),
		log.String("requester", req.UserID),
		log.String("decision", lo.Ternary(allowed, "allow", "deny")),
	)

	return allowed
}

func (e *Evaluator) evaluate(ctx context.Context, d Descriptor, req Requester) bool {
	if tenantID, ok := req.Scope.TenantID(); ok && tenantID != d.TenantID {
		return false
	}

	if req.isSuperuser() {
		return true
	}

	if req.UserID == d.OwnerID {
		return true
	}

	if NormalizeLevel(ctx, d.Level) == LevelPrivate {
		// A single branch by observed behavior: the admin-tier override
		// and the flat whitelist live together and are not generalized
		// to other levels.
		return req.isTenantAdmin(d.TenantID) || slices.Contains(d.Whitelist, req.UserID)
	}

	return req.memberOfTenant(d.TenantID)
}

// CanViewKeyResult is defined as CanView applied to the parent objective's
// descriptor. A key result never has an independent visibility computation.
func (e *Evaluator) CanViewKeyResult(ctx context.Context, parent Descriptor, req Requester) bool {
	return e.CanView(ctx, parent, req)
}

// FilterVisible returns the descriptors the requester may view, item-by-item
// identical to calling CanView on each element.
func (e *Evaluator) FilterVisible(ctx context.Context, list []Descriptor, req Requester) []Descriptor {
	return lo.Filter(list, func(d Descriptor, _ int) bool {
		return e.CanView(ctx, d, req)
	})
}
