// Package activity provides the PostgreSQL-backed repository for
// append-only audit records.
package activity

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, log *models.ActivityLog) (*models.ActivityLog, error) {
	query := `
		INSERT INTO activity_logs (user_id, user_name, user_email, action, details, ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		log.UserID, log.UserName, log.UserEmail, log.Action, log.Details, log.IP).
		Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return log, nil
}

// List returns audit records newest first. Search matches action, user name
// and user email case-insensitively; the date range is inclusive.
func (r *PostgresRepository) List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityLog, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(action ILIKE %s OR user_name ILIKE %s OR user_email ILIKE %s)", p, p, p))
	}
	if filter.StartDate != nil {
		conds = append(conds, "created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conds = append(conds, "created_at <= "+arg(*filter.EndDate))
	}

	query := `SELECT id, user_id, user_name, user_email, action, details, ip, created_at FROM activity_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Take > 0 {
		query += " LIMIT " + arg(filter.Take)
	}
	if filter.Skip > 0 {
		query += " OFFSET " + arg(filter.Skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ActivityLog
	for rows.Next() {
		item := &models.ActivityLog{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.UserName, &item.UserEmail,
			&item.Action, &item.Details, &item.IP, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
