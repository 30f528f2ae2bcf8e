package authz

// RoleSet is a set of roles granted on one scope id.
type RoleSet map[Role]struct{}

// Has reports whether the set contains the role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAdminTier reports whether any role in the set is admin tier.
func (s RoleSet) HasAdminTier() bool {
	for role := range s {
		if role.IsAdminTier() {
			return true
		}
	}

	return false
}

func (s RoleSet) add(role Role) {
	s[role] = struct{}{}
}

// UserAuthorizationContext is the immutable result of resolving one user's
// role assignments. It is derived, never persisted, and never reused across
// users or across operations' security boundaries.
type UserAuthorizationContext struct {
	UserID         string
	IsSuperuser    bool
	TenantRoles    map[string]RoleSet
	WorkspaceRoles map[string]RoleSet
	TeamRoles      map[string]RoleSet
	DirectReports  []string
}

// HasTenantRole reports whether the user holds the role on the tenant.
func (c *UserAuthorizationContext) HasTenantRole(tenantID string, role Role) bool {
	return c.TenantRoles[tenantID].Has(role)
}

// IsTenantAdmin reports whether the user holds an admin-tier role on the
// tenant.
func (c *UserAuthorizationContext) IsTenantAdmin(tenantID string) bool {
	return c.TenantRoles[tenantID].HasAdminTier()
}

// MemberOfTenant reports whether the user holds any role on the tenant.
func (c *UserAuthorizationContext) MemberOfTenant(tenantID string) bool {
	return len(c.TenantRoles[tenantID]) > 0
}
