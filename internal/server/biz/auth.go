package biz

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/contexts"
	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/tenancy"
)

// AuthConfig configures token issuance.
type AuthConfig struct {
	// SecretKey signs session tokens.
	SecretKey string `conf:"secret_key" yaml:"secret_key" json:"secret_key"`
	// TokenTTL bounds session lifetime. Defaults to 7 days.
	TokenTTL time.Duration `conf:"token_ttl" yaml:"token_ttl" json:"token_ttl"`
}

// AuthUserStore extends the user store with the email lookup the login flow
// needs.
type AuthUserStore interface {
	authz.UserStore

	GetUserByEmail(ctx context.Context, email string) (*authz.User, error)
}

type AuthServiceParams struct {
	fx.In

	Config      AuthConfig
	Users       AuthUserStore
	Assignments authz.RoleAssignmentStore
	Resolver    *authz.Resolver
}

func NewAuthService(params AuthServiceParams) *AuthService {
	ttl := params.Config.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &AuthService{
		secretKey:   params.Config.SecretKey,
		tokenTTL:    ttl,
		users:       params.Users,
		assignments: params.Assignments,
		resolver:    params.Resolver,
	}
}

type AuthService struct {
	secretKey   string
	tokenTTL    time.Duration
	users       AuthUserStore
	assignments authz.RoleAssignmentStore
	resolver    *authz.Resolver
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hex.EncodeToString(hashedPassword), nil
}

// VerifyPassword verifies a password against a hash.
func VerifyPassword(hashedPassword, password string) error {
	decodedHashedPassword, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to decode hashed password: %w", err)
	}

	return bcrypt.CompareHashAndPassword(decodedHashedPassword, []byte(password))
}

// AuthenticateUser authenticates a user with email and password.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*authz.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		log.Debug(ctx, "login failed: user lookup", log.Cause(err))

		return nil, fmt.Errorf("invalid email or password: %w", ErrInvalidPassword)
	}

	if err := VerifyPassword(user.Password, password); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrInvalidPassword)
	}

	log.Debug(ctx, "user authenticated", log.String("user_id", user.ID))

	return user, nil
}

// IssueToken creates a session token carrying the user id and the primary
// tenant: the earliest-created TENANT-scope assignment. A non-superuser with
// no tenant at all cannot hold an interactive session.
func (s *AuthService) IssueToken(ctx context.Context, user *authz.User) (string, error) {
	assignments, err := s.assignments.ListByUser(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load role assignments: %w", err)
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	tenantID, ok := authz.PrimaryTenant(assignments)

	switch {
	case ok:
		claims["tenant_id"] = tenantID
	case user.IsSuperuser:
		// Superusers get the global read-only scope instead of a tenant.
	default:
		return "", fmt.Errorf("%w: user %s has no tenant-scope assignment", authz.ErrNoTenantResolved, user.ID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// SessionClaims is the decoded session token.
type SessionClaims struct {
	UserID   string
	TenantID string
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWT, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidJWT
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidJWT
	}

	tenantID, _ := claims["tenant_id"].(string)

	return &SessionClaims{UserID: userID, TenantID: tenantID}, nil
}

// BindSession binds the validated session to the context: the requester id,
// and the tenant scope for the remaining duration of the operation. A
// session without a tenant is only valid for superusers, who get the global
// read-only scope.
func (s *AuthService) BindSession(ctx context.Context, claims *SessionClaims) (context.Context, error) {
	ctx = contexts.WithRequesterID(ctx, claims.UserID)

	if claims.TenantID != "" {
		return tenancy.WithTenant(ctx, claims.TenantID)
	}

	authCtx, err := s.resolver.BuildContext(ctx, claims.UserID)
	if err != nil {
		return ctx, err
	}

	if authCtx.IsSuperuser {
		return tenancy.WithGlobalScope(ctx)
	}

	return ctx, fmt.Errorf("%w: session carries no tenant", authz.ErrNoTenantResolved)
}
