package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/goalkeep/goalkeep/internal/server/biz"
)

const keyResultColumns = "id, owner_id, objective_id, title, target, current, created_at, updated_at"

// KeyResultRepository implements biz.KeyResultStore. Key results carry no
// tenant id; the service layer reaches them strictly through the parent
// objective, so no interceptor runs here.
type KeyResultRepository struct {
	client *Client
}

func NewKeyResultRepository(client *Client) *KeyResultRepository {
	return &KeyResultRepository{client: client}
}

func scanKeyResult(row pgx.Row) (*biz.KeyResult, error) {
	var keyResult biz.KeyResult

	err := row.Scan(
		&keyResult.ID,
		&keyResult.OwnerID,
		&keyResult.ObjectiveID,
		&keyResult.Title,
		&keyResult.Target,
		&keyResult.Current,
		&keyResult.CreatedAt,
		&keyResult.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &keyResult, nil
}

func (r *KeyResultRepository) Get(ctx context.Context, id string) (*biz.KeyResult, error) {
	keyResult, err := scanKeyResult(r.client.pool.QueryRow(ctx,
		"SELECT "+keyResultColumns+" FROM key_results WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: key result %s", biz.ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("postgres: get key result %s: %w", id, err)
	}

	return keyResult, nil
}

func (r *KeyResultRepository) ListByObjective(ctx context.Context, objectiveID string) ([]*biz.KeyResult, error) {
	rows, err := r.client.pool.Query(ctx,
		"SELECT "+keyResultColumns+" FROM key_results WHERE objective_id = $1 ORDER BY created_at", objectiveID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list key results for %s: %w", objectiveID, err)
	}
	defer rows.Close()

	var out []*biz.KeyResult

	for rows.Next() {
		keyResult, err := scanKeyResult(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan key result: %w", err)
		}

		out = append(out, keyResult)
	}

	return out, rows.Err()
}

func (r *KeyResultRepository) Create(ctx context.Context, keyResult *biz.KeyResult) error {
	_, err := r.client.pool.Exec(ctx,
		`INSERT INTO key_results (`+keyResultColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		keyResult.ID,
		keyResult.OwnerID,
		keyResult.ObjectiveID,
		keyResult.Title,
		keyResult.Target,
		keyResult.Current,
		keyResult.CreatedAt,
		keyResult.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create key result: %w", err)
	}

	return nil
}

func (r *KeyResultRepository) Update(ctx context.Context, keyResult *biz.KeyResult) error {
	tag, err := r.client.pool.Exec(ctx,
		`UPDATE key_results
		 SET title = $2, target = $3, current = $4, updated_at = $5
		 WHERE id = $1`,
		keyResult.ID,
		keyResult.Title,
		keyResult.Target,
		keyResult.Current,
		keyResult.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update key result: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: key result %s", biz.ErrNotFound, keyResult.ID)
	}

	return nil
}

func (r *KeyResultRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.pool.Exec(ctx, `DELETE FROM key_results WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete key result: %w", err)
	}

	return nil
}
