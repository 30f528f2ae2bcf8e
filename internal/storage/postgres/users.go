package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/server/biz"
)

const userColumns = "id, email, name, password, is_superuser, manager_id, created_at"

// UserRepository implements the user read interfaces. Users are not a
// tenant-scoped kind, so reads go straight to the pool.
type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func scanUser(row pgx.Row) (*authz.User, error) {
	var user authz.User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Password,
		&user.IsSuperuser,
		&user.ManagerID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, userID string) (*authz.User, error) {
	user, err := scanUser(r.client.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", biz.ErrNotFound, userID)
	}

	if err != nil {
		return nil, fmt.Errorf("postgres: get user %s: %w", userID, err)
	}

	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*authz.User, error) {
	user, err := scanUser(r.client.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user with email %s", biz.ErrNotFound, email)
	}

	if err != nil {
		return nil, fmt.Errorf("postgres: get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) ListDirectReportIDs(ctx context.Context, managerID string) ([]string, error) {
	rows, err := r.client.pool.Query(ctx,
		`SELECT id FROM users WHERE manager_id = $1`, managerID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list direct reports of %s: %w", managerID, err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan direct report: %w", err)
		}

		out = append(out, id)
	}

	return out, rows.Err()
}
