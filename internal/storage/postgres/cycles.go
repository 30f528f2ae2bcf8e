package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/storage"
)

const cycleColumns = "id, tenant_id, name, start_date, end_date, status, is_generated, created_at, updated_at"

// CycleRepository implements cycles.Store.
type CycleRepository struct {
	client *Client
}

func NewCycleRepository(client *Client) *CycleRepository {
	return &CycleRepository{client: client}
}

func scanCycle(row pgx.Row) (*cycles.Cycle, error) {
	var (
		cycle     cycles.Cycle
		rawStatus string
	)

	err := row.Scan(
		&cycle.ID,
		&cycle.TenantID,
		&cycle.Name,
		&cycle.StartDate,
		&cycle.EndDate,
		&rawStatus,
		&cycle.IsGenerated,
		&cycle.CreatedAt,
		&cycle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cycle.Status = cycles.Status(rawStatus)

	return &cycle, nil
}

func (r *CycleRepository) list(ctx context.Context, filter storage.Filter) ([]*cycles.Cycle, error) {
	var out []*cycles.Cycle

	err := r.client.scopedRead(ctx, storage.KindCycles, filter,
		func(ctx context.Context, conn *pgxpool.Conn, effective storage.Filter) error {
			where, args := whereClause(effective)

			rows, err := conn.Query(ctx, "SELECT "+cycleColumns+" FROM cycles"+where+" ORDER BY start_date", args...)
			if err != nil {
				return fmt.Errorf("postgres: list cycles: %w", err)
			}
			defer rows.Close()

			for rows.Next() {
				cycle, err := scanCycle(rows)
				if err != nil {
					return fmt.Errorf("postgres: scan cycle: %w", err)
				}

				out = append(out, cycle)
			}

			return rows.Err()
		})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *CycleRepository) Get(ctx context.Context, id string) (*cycles.Cycle, error) {
	found, err := r.list(ctx, storage.Filter{"id": id})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", cycles.ErrNotFound, id)
	}

	return found[0], nil
}

func (r *CycleRepository) ListByTenant(ctx context.Context, tenantID string) ([]*cycles.Cycle, error) {
	return r.list(ctx, storage.Filter{"tenant_id": tenantID})
}

func (r *CycleRepository) Create(ctx context.Context, cycle *cycles.Cycle) error {
	_, err := r.client.pool.Exec(ctx,
		`INSERT INTO cycles (`+cycleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		cycle.ID,
		cycle.TenantID,
		cycle.Name,
		cycle.StartDate,
		cycle.EndDate,
		string(cycle.Status),
		cycle.IsGenerated,
		cycle.CreatedAt,
		cycle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create cycle: %w", err)
	}

	return nil
}

func (r *CycleRepository) Update(ctx context.Context, cycle *cycles.Cycle) error {
	tag, err := r.client.pool.Exec(ctx,
		`UPDATE cycles
		 SET name = $2, start_date = $3, end_date = $4, status = $5, updated_at = $6
		 WHERE id = $1`,
		cycle.ID,
		cycle.Name,
		cycle.StartDate,
		cycle.EndDate,
		string(cycle.Status),
		cycle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update cycle: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", cycles.ErrNotFound, cycle.ID)
	}

	return nil
}

func (r *CycleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.pool.Exec(ctx, `DELETE FROM cycles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete cycle: %w", err)
	}

	return nil
}
