package biz

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/contexts"
	"github.com/goalkeep/goalkeep/internal/tenancy"
	"github.com/goalkeep/goalkeep/internal/visibility"
)

// AbstractService carries what every service needs to place an operation in
// its security context: the resolver that turns the authenticated requester
// into an authorization context.
type AbstractService struct {
	resolver *authz.Resolver
}

// requesterFromContext builds the visibility requester for the current
// operation. The authorization context is resolved fresh per call and never
// reused across operations' security boundaries.
func (a *AbstractService) requesterFromContext(ctx context.Context) (visibility.Requester, error) {
	userID, ok := contexts.GetRequesterID(ctx)
	if !ok {
		return visibility.Requester{}, fmt.Errorf("%w: no authenticated requester", ErrForbidden)
	}

	authCtx, err := a.resolver.BuildContext(ctx, userID)
	if err != nil {
		return visibility.Requester{}, err
	}

	return visibility.Requester{
		UserID: userID,
		Scope:  tenancy.CurrentScope(ctx),
		Auth:   authCtx,
	}, nil
}
