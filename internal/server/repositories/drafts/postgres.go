// Package drafts provides the PostgreSQL-backed repository for property
// drafts stored as free-form JSON payloads.
package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, draft *models.PropertyDraft) (*models.PropertyDraft, error) {
	query := `
		INSERT INTO property_drafts (user_id, original_property_id, data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		draft.UserID, draft.OriginalPropertyID, []byte(draft.Data)).
		Scan(&draft.ID, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return draft, nil
}

func (r *PostgresRepository) Update(ctx context.Context, draft *models.PropertyDraft) (*models.PropertyDraft, error) {
	query := `
		UPDATE property_drafts
		SET data = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, draft.ID, []byte(draft.Data)).Scan(&draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return draft, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.PropertyDraft, error) {
	query := `
		SELECT id, user_id, original_property_id, data, created_at, updated_at
		FROM property_drafts
		WHERE id = $1
	`
	item := &models.PropertyDraft{}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.UserID, &item.OriginalPropertyID, &data, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	item.Data = data
	return item, nil
}

// List returns drafts ordered by most recently updated. An empty userID
// returns drafts for all users.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.PropertyDraft, error) {
	query := `
		SELECT id, user_id, original_property_id, data, created_at, updated_at
		FROM property_drafts
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PropertyDraft
	for rows.Next() {
		item := &models.PropertyDraft{}
		var data []byte
		if err := rows.Scan(&item.ID, &item.UserID, &item.OriginalPropertyID, &data,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.Data = data
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM property_drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
