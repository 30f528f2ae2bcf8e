package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/log"
)

// RoleService grants and revokes role assignments. Both operations require
// an admin-tier actor on the target tenant; revocation is a hard delete.
type RoleService struct {
	*AbstractService

	assignments authz.RoleAssignmentStore
}

func NewRoleService(resolver *authz.Resolver, assignments authz.RoleAssignmentStore) *RoleService {
	return &RoleService{
		AbstractService: &AbstractService{resolver: resolver},
		assignments:     assignments,
	}
}

// GrantInput describes one assignment to create.
type GrantInput struct {
	UserID    string
	Role      authz.Role
	ScopeType authz.ScopeType
	ScopeID   string
	TenantID  string
}

func (s *RoleService) assertAdminActor(ctx context.Context, tenantID string) (string, error) {
	req, err := s.requesterFromContext(ctx)
	if err != nil {
		return "", err
	}

	if !req.Auth.IsTenantAdmin(tenantID) {
		return "", fmt.Errorf("%w: %s is not a tenant admin of %s", ErrForbidden, req.UserID, tenantID)
	}

	return req.UserID, nil
}

func (s *RoleService) Grant(ctx context.Context, input GrantInput) (*authz.RoleAssignment, error) {
	if !authz.IsValidRole(string(input.Role)) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, input.Role)
	}

	if err := authz.AssertCanMutate(ctx, input.TenantID); err != nil {
		return nil, err
	}

	actorID, err := s.assertAdminActor(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	assignment := authz.RoleAssignment{
		UserID:    input.UserID,
		Role:      input.Role,
		ScopeType: input.ScopeType,
		ScopeID:   input.ScopeID,
		GrantedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("biz: grant role: %w", err)
	}

	log.Info(ctx, "role granted",
		log.String("user_id", input.UserID),
		log.String("role", string(input.Role)),
		log.String("scope_id", input.ScopeID),
	)

	return &assignment, nil
}

// RevokeInput identifies one assignment to hard-delete.
type RevokeInput struct {
	UserID    string
	Role      authz.Role
	ScopeType authz.ScopeType
	ScopeID   string
	TenantID  string
}

func (s *RoleService) Revoke(ctx context.Context, input RevokeInput) error {
	if err := authz.AssertCanMutate(ctx, input.TenantID); err != nil {
		return err
	}

	if _, err := s.assertAdminActor(ctx, input.TenantID); err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, input.UserID, input.Role, input.ScopeType, input.ScopeID); err != nil {
		return fmt.Errorf("biz: revoke role: %w", err)
	}

	log.Info(ctx, "role revoked",
		log.String("user_id", input.UserID),
		log.String("role", string(input.Role)),
		log.String("scope_id", input.ScopeID),
	)

	return nil
}
