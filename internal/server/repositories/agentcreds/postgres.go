// Package agentcreds provides the PostgreSQL-backed repository for agent
// portal credentials.
package agentcreds

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

func (r *PostgresRepository) Create(ctx context.Context, cred *models.AgentCredential) (*models.AgentCredential, error) {
	query := `
		INSERT INTO agent_credentials (agent_id, email, password_enc)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, cred.AgentID, cred.Email, cred.Password).
		Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cred, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.AgentCredential, error) {
	query := `
		SELECT id, agent_id, email, password_enc, created_at, updated_at
		FROM agent_credentials
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AgentCredential
	for rows.Next() {
		item := &models.AgentCredential{}
		if err := rows.Scan(&item.ID, &item.AgentID, &item.Email, &item.Password,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.AgentCredential, error) {
	query := `
		SELECT id, agent_id, email, password_enc, created_at, updated_at
		FROM agent_credentials
		WHERE id = $1
	`
	item := &models.AgentCredential{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.AgentID, &item.Email, &item.Password, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Update(ctx context.Context, cred *models.AgentCredential) (*models.AgentCredential, error) {
	query := `
		UPDATE agent_credentials
		SET agent_id = $2, email = $3, password_enc = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, cred.ID, cred.AgentID, cred.Email, cred.Password).
		Scan(&cred.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cred, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agent_credentials WHERE id = $1`, id)
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
