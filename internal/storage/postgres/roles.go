package postgres

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/authz"
)

// RoleAssignmentRepository implements authz.RoleAssignmentStore. Revocation
// is a hard delete.
type RoleAssignmentRepository struct {
	client *Client
}

func NewRoleAssignmentRepository(client *Client) *RoleAssignmentRepository {
	return &RoleAssignmentRepository{client: client}
}

func (r *RoleAssignmentRepository) ListByUser(ctx context.Context, userID string) ([]authz.RoleAssignment, error) {
	rows, err := r.client.pool.Query(ctx,
		`SELECT user_id, role, scope_type, scope_id, granted_by, created_at
		 FROM role_assignments WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list role assignments for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []authz.RoleAssignment

	for rows.Next() {
		var (
			assignment   authz.RoleAssignment
			rawRole      string
			rawScopeType string
		)

		err := rows.Scan(
			&assignment.UserID,
			&rawRole,
			&rawScopeType,
			&assignment.ScopeID,
			&assignment.GrantedBy,
			&assignment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan role assignment: %w", err)
		}

		assignment.Role = authz.Role(rawRole)
		assignment.ScopeType = authz.ScopeType(rawScopeType)

		out = append(out, assignment)
	}

	return out, rows.Err()
}

func (r *RoleAssignmentRepository) Create(ctx context.Context, assignment authz.RoleAssignment) error {
	_, err := r.client.pool.Exec(ctx,
		`INSERT INTO role_assignments (user_id, role, scope_type, scope_id, granted_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, role, scope_type, scope_id) DO NOTHING`,
		assignment.UserID,
		string(assignment.Role),
		string(assignment.ScopeType),
		assignment.ScopeID,
		assignment.GrantedBy,
		assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create role assignment: %w", err)
	}

	return nil
}

func (r *RoleAssignmentRepository) Delete(ctx context.Context, userID string, role authz.Role, scopeType authz.ScopeType, scopeID string) error {
	_, err := r.client.pool.Exec(ctx,
		`DELETE FROM role_assignments
		 WHERE user_id = $1 AND role = $2 AND scope_type = $3 AND scope_id = $4`,
		userID, string(role), string(scopeType), scopeID)
	if err != nil {
		return fmt.Errorf("postgres: delete role assignment: %w", err)
	}

	return nil
}
