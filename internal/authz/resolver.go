package authz

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// UserStore is the user/identity read collaborator.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	ListDirectReportIDs(ctx context.Context, managerID string) ([]string, error)
}

// RoleAssignmentStore is the role-assignment collaborator. Assignments are
// hard-deleted on revocation.
type RoleAssignmentStore interface {
	ListByUser(ctx context.Context, userID string) ([]RoleAssignment, error)
	Create(ctx context.Context, assignment RoleAssignment) error
	Delete(ctx context.Context, userID string, role Role, scopeType ScopeType, scopeID string) error
}

// Resolver builds authorization contexts from role assignments.
type Resolver struct {
	users       UserStore
	assignments RoleAssignmentStore
}

func NewResolver(users UserStore, assignments RoleAssignmentStore) *Resolver {
	return &Resolver{users: users, assignments: assignments}
}

// BuildContext loads the user's role assignments and buckets them by scope
// type. The superuser flag is read from the user record, independent of
// assignments. A user with zero TENANT assignments and no superuser flag
// still resolves successfully with empty maps; treating that as a hard
// failure is the caller's job.
func (r *Resolver) BuildContext(ctx context.Context, userID string) (*UserAuthorizationContext, error) {
	var (
		user        *User
		assignments []RoleAssignment
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		user, err = r.users.GetUser(groupCtx, userID)
		if err != nil {
			return fmt.Errorf("authz: load user %s: %w", userID, err)
		}

		return nil
	})
	group.Go(func() error {
		var err error

		assignments, err = r.assignments.ListByUser(groupCtx, userID)
		if err != nil {
			return fmt.Errorf("authz: load role assignments for %s: %w", userID, err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	directReports, err := r.users.ListDirectReportIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("authz: load direct reports for %s: %w", userID, err)
	}

	authCtx := &UserAuthorizationContext{
		UserID:         user.ID,
		IsSuperuser:    user.IsSuperuser,
		TenantRoles:    map[string]RoleSet{},
		WorkspaceRoles: map[string]RoleSet{},
		TeamRoles:      map[string]RoleSet{},
		DirectReports:  directReports,
	}

	for _, assignment := range assignments {
		var bucket map[string]RoleSet

		switch assignment.ScopeType {
		case ScopeTenant:
			bucket = authCtx.TenantRoles
		case ScopeWorkspace:
			bucket = authCtx.WorkspaceRoles
		case ScopeTeam:
			bucket = authCtx.TeamRoles
		default:
			continue
		}

		set, ok := bucket[assignment.ScopeID]
		if !ok {
			set = RoleSet{}
			bucket[assignment.ScopeID] = set
		}

		set.add(assignment.Role)
	}

	return authCtx, nil
}

// PrimaryTenant derives the single scalar tenant for session issuance: the
// TENANT-scope assignment with the earliest creation time, ties broken by
// scope id so repeated calls are stable.
func PrimaryTenant(assignments []RoleAssignment) (string, bool) {
	var (
		found   bool
		primary RoleAssignment
	)

	for _, assignment := range assignments {
		if assignment.ScopeType != ScopeTenant {
			continue
		}

		if !found {
			found, primary = true, assignment
			continue
		}

		if assignment.CreatedAt.Before(primary.CreatedAt) ||
			(assignment.CreatedAt.Equal(primary.CreatedAt) && assignment.ScopeID < primary.ScopeID) {
			primary = assignment
		}
	}

	if !found {
		return "", false
	}

	return primary.ScopeID, true
}
