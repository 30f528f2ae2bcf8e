package biz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := biz.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	assert.NoError(t, biz.VerifyPassword(hashed, "s3cret"))
	assert.Error(t, biz.VerifyPassword(hashed, "wrong"))
}

func TestAuthenticateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hashed, err := biz.HashPassword("s3cret")
	require.NoError(t, err)

	f.users.Put(&authz.User{ID: "alice", Email: "alice@example.com", Password: hashed})

	user, err := f.authService.AuthenticateUser(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)

	_, err = f.authService.AuthenticateUser(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, biz.ErrInvalidPassword)

	_, err = f.authService.AuthenticateUser(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, biz.ErrInvalidPassword)
}

func TestIssueTokenEmbedsPrimaryTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.GetUser(ctx, "alice")
	require.NoError(t, err)

	token, err := f.authService.IssueToken(ctx, user)
	require.NoError(t, err)

	claims, err := f.authService.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, "tenant-a", claims.TenantID)
}

func TestIssueTokenPicksEarliestTenantAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Alice joins a second tenant later; the session still carries the
	// original one.
	require.NoError(t, f.assignments.Create(ctx, authz.RoleAssignment{
		UserID:    "alice",
		Role:      authz.RoleMember,
		ScopeType: authz.ScopeTenant,
		ScopeID:   "tenant-b",
		CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}))

	user, err := f.users.GetUser(ctx, "alice")
	require.NoError(t, err)

	token, err := f.authService.IssueToken(ctx, user)
	require.NoError(t, err)

	claims, err := f.authService.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", claims.TenantID)
}

func TestIssueTokenRejectsTenantlessUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.GetUser(ctx, "drifter")
	require.NoError(t, err)

	_, err = f.authService.IssueToken(ctx, user)
	assert.ErrorIs(t, err, authz.ErrNoTenantResolved)
}

func TestIssueTokenSuperuserWithoutTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.GetUser(ctx, "root")
	require.NoError(t, err)

	token, err := f.authService.IssueToken(ctx, user)
	require.NoError(t, err)

	claims, err := f.authService.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "root", claims.UserID)
	assert.Empty(t, claims.TenantID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.GetUser(ctx, "alice")
	require.NoError(t, err)

	token, err := f.authService.IssueToken(ctx, user)
	require.NoError(t, err)

	_, err = f.authService.ValidateToken(ctx, token+"x")
	assert.ErrorIs(t, err, biz.ErrInvalidJWT)
}

func TestBindSessionBindsTenantScope(t *testing.T) {
	f := newFixture(t)

	ctx, err := f.authService.BindSession(context.Background(), &biz.SessionClaims{
		UserID:   "alice",
		TenantID: "tenant-a",
	})
	require.NoError(t, err)

	scope := tenancy.CurrentScope(ctx)
	tenantID, ok := scope.TenantID()
	require.True(t, ok)
	assert.Equal(t, "tenant-a", tenantID)
}

func TestBindSessionGlobalScopeForSuperuser(t *testing.T) {
	f := newFixture(t)

	ctx, err := f.authService.BindSession(context.Background(), &biz.SessionClaims{UserID: "root"})
	require.NoError(t, err)

	assert.True(t, tenancy.CurrentScope(ctx).IsGlobal())
}

func TestBindSessionRejectsTenantlessNonSuperuser(t *testing.T) {
	f := newFixture(t)

	_, err := f.authService.BindSession(context.Background(), &biz.SessionClaims{UserID: "drifter"})
	assert.ErrorIs(t, err, authz.ErrNoTenantResolved)
}
