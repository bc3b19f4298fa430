// Package secrets provides the PostgreSQL-backed repository for
// password-vault records.
package secrets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

// PostgresRepository implements secret storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// access_ids is a jsonb array column; it travels as marshaled JSON.
func marshalAccessIDs(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (r *PostgresRepository) Create(ctx context.Context, secret *models.Secret) (*models.Secret, error) {
	accessIDs, err := marshalAccessIDs(secret.AccessIDs)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO secrets (title, note, username_enc, password_enc, access_ids, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		secret.Title, secret.Note, secret.Username, secret.Password, accessIDs, secret.CreatedBy).
		Scan(&secret.ID, &secret.CreatedAt, &secret.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return secret, nil
}

// List returns every record, newest first. Username/Password stay in their
// stored (encrypted) form; the service decides what the caller may see.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Secret, error) {
	query := `
		SELECT id, title, note, username_enc, password_enc, access_ids, created_by, created_at, updated_at
		FROM secrets
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		item, err := scanSecret(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Secret, error) {
	query := `
		SELECT id, title, note, username_enc, password_enc, access_ids, created_by, created_at, updated_at
		FROM secrets
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	item := &models.Secret{}
	var accessIDs []byte
	err := row.Scan(&item.ID, &item.Title, &item.Note, &item.Username, &item.Password,
		&accessIDs, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(accessIDs, &item.AccessIDs); err != nil {
		return nil, fmt.Errorf("access ids decode error: %w", err)
	}

	return item, nil
}

// Update replaces the full mutable row. Partial-patch merging happens in the
// service, which reads the record first for the authorization check anyway.
func (r *PostgresRepository) Update(ctx context.Context, secret *models.Secret) (*models.Secret, error) {
	accessIDs, err := marshalAccessIDs(secret.AccessIDs)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE secrets
		SET title = $2, note = $3, username_enc = $4, password_enc = $5, access_ids = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		secret.ID, secret.Title, secret.Note, secret.Username, secret.Password, accessIDs).
		Scan(&secret.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return secret, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, id)
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

func scanSecret(rows *sql.Rows) (*models.Secret, error) {
	item := &models.Secret{}
	var accessIDs []byte
	if err := rows.Scan(&item.ID, &item.Title, &item.Note, &item.Username, &item.Password,
		&accessIDs, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(accessIDs, &item.AccessIDs); err != nil {
		return nil, fmt.Errorf("access ids decode error: %w", err)
	}
	return item, nil
}
