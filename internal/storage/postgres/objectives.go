package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/visibility"
)

const objectiveColumns = "id, owner_id, tenant_id, title, cycle_id, visibility, whitelist, created_at, updated_at"

// ObjectiveRepository implements biz.ObjectiveStore. All reads go through
// scopedRead so the isolation layer sees them.
type ObjectiveRepository struct {
	client *Client
}

func NewObjectiveRepository(client *Client) *ObjectiveRepository {
	return &ObjectiveRepository{client: client}
}

func scanObjective(row pgx.Row) (*biz.Objective, error) {
	var (
		objective biz.Objective
		rawLevel  string
	)

	err := row.Scan(
		&objective.ID,
		&objective.OwnerID,
		&objective.TenantID,
		&objective.Title,
		&objective.CycleID,
		&rawLevel,
		&objective.Whitelist,
		&objective.CreatedAt,
		&objective.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	objective.Visibility = visibility.Level(rawLevel)

	return &objective, nil
}

func (r *ObjectiveRepository) List(ctx context.Context, filter storage.Filter) ([]*biz.Objective, error) {
	var out []*biz.Objective

	err := r.client.scopedRead(ctx, storage.KindObjectives, filter,
		func(ctx context.Context, conn *pgxpool.Conn, effective storage.Filter) error {
			where, args := whereClause(effective)

			rows, err := conn.Query(ctx, "SELECT "+objectiveColumns+" FROM objectives"+where+" ORDER BY created_at", args...)
			if err != nil {
				return fmt.Errorf("postgres: list objectives: %w", err)
			}
			defer rows.Close()

			for rows.Next() {
				objective, err := scanObjective(rows)
				if err != nil {
					return fmt.Errorf("postgres: scan objective: %w", err)
				}

				out = append(out, objective)
			}

			return rows.Err()
		})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ObjectiveRepository) Get(ctx context.Context, id string) (*biz.Objective, error) {
	found, err := r.List(ctx, storage.Filter{"id": id})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: objective %s", biz.ErrNotFound, id)
	}

	return found[0], nil
}

func (r *ObjectiveRepository) Create(ctx context.Context, objective *biz.Objective) error {
	_, err := r.client.pool.Exec(ctx,
		`INSERT INTO objectives (`+objectiveColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		objective.ID,
		objective.OwnerID,
		objective.TenantID,
		objective.Title,
		objective.CycleID,
		string(objective.Visibility),
		objective.Whitelist,
		objective.CreatedAt,
		objective.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create objective: %w", err)
	}

	return nil
}

func (r *ObjectiveRepository) Update(ctx context.Context, objective *biz.Objective) error {
	tag, err := r.client.pool.Exec(ctx,
		`UPDATE objectives
		 SET title = $2, cycle_id = $3, visibility = $4, whitelist = $5, updated_at = $6
		 WHERE id = $1`,
		objective.ID,
		objective.Title,
		objective.CycleID,
		string(objective.Visibility),
		objective.Whitelist,
		objective.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update objective: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: objective %s", biz.ErrNotFound, objective.ID)
	}

	return nil
}

func (r *ObjectiveRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.pool.Exec(ctx, `DELETE FROM objectives WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete objective: %w", err)
	}

	return nil
}

func (r *ObjectiveRepository) CountByCycle(ctx context.Context, cycleID string) (int, error) {
	var count int

	err := r.client.scopedRead(ctx, storage.KindObjectives, storage.Filter{"cycle_id": cycleID},
		func(ctx context.Context, conn *pgxpool.Conn, effective storage.Filter) error {
			where, args := whereClause(effective)

			return conn.QueryRow(ctx, "SELECT count(*) FROM objectives"+where, args...).Scan(&count)
		})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("postgres: count objectives by cycle: %w", err)
	}

	return count, nil
}
