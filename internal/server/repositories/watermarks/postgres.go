// Package watermarks provides the PostgreSQL-backed repository for
// watermark presets.
package watermarks

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

const watermarkColumns = `id, name, type, image_url, text, text_color, position,
	opacity, scale, rotation, blend_mode, is_active, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, wm *models.Watermark) (*models.Watermark, error) {
	query := `
		INSERT INTO watermarks (name, type, image_url, text, text_color, position,
			opacity, scale, rotation, blend_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		wm.Name, wm.Type, wm.ImageURL, wm.Text, wm.TextColor, wm.Position,
		wm.Opacity, wm.Scale, wm.Rotation, wm.BlendMode).
		Scan(&wm.ID, &wm.IsActive, &wm.CreatedAt, &wm.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return wm, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Watermark, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+watermarkColumns+` FROM watermarks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Watermark
	for rows.Next() {
		item := &models.Watermark{}
		if err := scanWatermark(rows, item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Watermark, error) {
	item := &models.Watermark{}
	err := scanWatermark(r.db.QueryRowContext(ctx,
		`SELECT `+watermarkColumns+` FROM watermarks WHERE id = $1`, id), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// GetActive returns the single active preset, or ErrNotFound when no
// preset is active (a legitimate state, not a failure).
func (r *PostgresRepository) GetActive(ctx context.Context) (*models.Watermark, error) {
	item := &models.Watermark{}
	err := scanWatermark(r.db.QueryRowContext(ctx,
		`SELECT `+watermarkColumns+` FROM watermarks WHERE is_active LIMIT 1`), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Update(ctx context.Context, wm *models.Watermark) (*models.Watermark, error) {
	query := `
		UPDATE watermarks
		SET name = $2, text = $3, text_color = $4, position = $5,
			opacity = $6, scale = $7, rotation = $8, blend_mode = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		wm.ID, wm.Name, wm.Text, wm.TextColor, wm.Position,
		wm.Opacity, wm.Scale, wm.Rotation, wm.BlendMode).
		Scan(&wm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return wm, nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE watermarks SET is_active = false, updated_at = now() WHERE is_active`)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE watermarks SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
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

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM watermarks WHERE id = $1`, id)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanWatermark(s scanner, item *models.Watermark) error {
	return s.Scan(&item.ID, &item.Name, &item.Type, &item.ImageURL, &item.Text,
		&item.TextColor, &item.Position, &item.Opacity, &item.Scale, &item.Rotation,
		&item.BlendMode, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
}
