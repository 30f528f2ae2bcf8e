package authz

import (
	"slices"
	"time"
)

// Role is a role slug granted by an assignment.
type Role string

// Available roles in the system.
const (
	// RoleOwner owns the scope it is granted on; admin tier.
	RoleOwner Role = "owner"
	// RoleAdmin administers the scope it is granted on; admin tier.
	RoleAdmin Role = "admin"
	// RoleMember is a regular member of the scope.
	RoleMember Role = "member"
	// RoleViewer has read-only membership of the scope.
	RoleViewer Role = "viewer"
)

// adminTierRoles are the roles that satisfy tenant-admin checks, such as the
// private-visibility override.
var adminTierRoles = []Role{RoleOwner, RoleAdmin}

// IsAdminTier reports whether the role satisfies tenant-admin checks.
func (r Role) IsAdminTier() bool {
	return slices.Contains(adminTierRoles, r)
}

// IsValidRole checks if a role slug is one of the closed role set.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	default:
		return false
	}
}

// ScopeType is the kind of scope a role assignment applies to.
type ScopeType string

const (
	ScopeTenant    ScopeType = "TENANT"
	ScopeWorkspace ScopeType = "WORKSPACE"
	ScopeTeam      ScopeType = "TEAM"
)

// RoleAssignment grants one role on one scope. Assignments are created and
// hard-deleted by administrative actors; there is no soft-disable state.
type RoleAssignment struct {
	UserID    string
	Role      Role
	ScopeType ScopeType
	ScopeID   string
	GrantedBy string
	CreatedAt time.Time
}

// User is the identity record role assignments hang off. The superuser flag
// is orthogonal to tenant membership.
type User struct {
	ID          string
	Email       string
	Name        string
	Password    string
	IsSuperuser bool
	ManagerID   string
	CreatedAt   time.Time
}
