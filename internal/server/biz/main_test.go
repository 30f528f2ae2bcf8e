package biz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/contexts"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/isolation"
	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/storage/memory"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

// fixture wires the full service stack over the in-memory store, with the
// same interceptor chain production uses.
type fixture struct {
	store       *memory.Store
	users       *memory.UserRepository
	assignments *memory.RoleAssignmentRepository
	objectives  *memory.ObjectiveRepository
	keyResults  *memory.KeyResultRepository
	cycleRepo   *memory.CycleRepository

	resolver         *authz.Resolver
	cycleService     *cycles.Service
	objectiveService *biz.ObjectiveService
	keyResultService *biz.KeyResultService
	roleService      *biz.RoleService
	authService      *biz.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore(storage.Interceptors{
		isolation.NewSessionMirror(),
		isolation.NewTenantFilter(),
	})

	f := &fixture{
		store:       store,
		users:       memory.NewUserRepository(store),
		assignments: memory.NewRoleAssignmentRepository(store),
		objectives:  memory.NewObjectiveRepository(store),
		keyResults:  memory.NewKeyResultRepository(store),
		cycleRepo:   memory.NewCycleRepository(store),
	}

	f.resolver = authz.NewResolver(f.users, f.assignments)
	f.cycleService = cycles.NewService(f.cycleRepo, f.objectives)
	f.objectiveService = biz.NewObjectiveService(f.resolver, f.objectives, f.cycleService)
	f.keyResultService = biz.NewKeyResultService(f.resolver, f.keyResults, f.objectives, f.cycleService)
	f.roleService = biz.NewRoleService(f.resolver, f.assignments)
	f.authService = biz.NewAuthService(biz.AuthServiceParams{
		Config:      biz.AuthConfig{SecretKey: "test-secret", TokenTTL: time.Hour},
		Users:       f.users,
		Assignments: f.assignments,
		Resolver:    f.resolver,
	})

	f.seed(t)

	return f
}

// seed creates the standing cast: alice and bob are members of tenant-a,
// adam administers it, carol belongs to tenant-b, root is a platform
// superuser with no tenant, and drifter has no assignments at all.
func (f *fixture) seed(t *testing.T) {
	t.Helper()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, user := range []*authz.User{
		{ID: "alice", Email: "alice@example.com", CreatedAt: now},
		{ID: "bob", Email: "bob@example.com", CreatedAt: now},
		{ID: "adam", Email: "adam@example.com", CreatedAt: now},
		{ID: "carol", Email: "carol@example.com", CreatedAt: now},
		{ID: "root", Email: "root@example.com", IsSuperuser: true, CreatedAt: now},
		{ID: "drifter", Email: "drifter@example.com", CreatedAt: now},
	} {
		f.users.Put(user)
	}

	ctx := context.Background()

	for _, assignment := range []authz.RoleAssignment{
		{UserID: "alice", Role: authz.RoleMember, ScopeType: authz.ScopeTenant, ScopeID: "tenant-a", CreatedAt: now},
		{UserID: "bob", Role: authz.RoleMember, ScopeType: authz.ScopeTenant, ScopeID: "tenant-a", CreatedAt: now},
		{UserID: "adam", Role: authz.RoleAdmin, ScopeType: authz.ScopeTenant, ScopeID: "tenant-a", CreatedAt: now},
		{UserID: "carol", Role: authz.RoleMember, ScopeType: authz.ScopeTenant, ScopeID: "tenant-b", CreatedAt: now},
	} {
		require.NoError(t, f.assignments.Create(ctx, assignment))
	}
}

// bind returns a context authenticated as userID and bound to tenantID.
func bind(t *testing.T, userID, tenantID string) context.Context {
	t.Helper()

	ctx := contexts.WithRequesterID(context.Background(), userID)

	ctx, err := tenancy.WithTenant(ctx, tenantID)
	require.NoError(t, err)

	return ctx
}

// contextWithRequesterOnly authenticates a requester without binding any
// tenant scope.
func contextWithRequesterOnly(userID string) context.Context {
	return contexts.WithRequesterID(context.Background(), userID)
}

// bindGlobal returns a context authenticated as userID under the global
// read-only scope.
func bindGlobal(t *testing.T, userID string) context.Context {
	t.Helper()

	ctx := contexts.WithRequesterID(context.Background(), userID)

	ctx, err := tenancy.WithGlobalScope(ctx)
	require.NoError(t, err)

	return ctx
}
