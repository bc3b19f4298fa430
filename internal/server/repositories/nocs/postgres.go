// Package nocs provides the PostgreSQL-backed repository for listing
// agreements and their owner sub-records.
package nocs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements agreement storage over a dbx.DBTX. Callers
// that need the document and its owners written atomically bind the
// repository to a transaction via dbx.WithTx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

// Insert persists the agreement and its owner rows. A duplicate client
// phone maps to common.ErrConflict; other storage errors pass through.
func (r *PostgresRepository) Insert(ctx context.Context, noc *models.NOC) error {
	query := `
		INSERT INTO nocs (property_type, building_project_name, community, street_name,
			build_up_area, plot_area, bedrooms, bathrooms, rental_amount, sale_amount, parking,
			agreement_type, period_months, agreement_date,
			client_phone, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		noc.PropertyType, noc.BuildingProjectName, noc.Community, noc.StreetName,
		noc.BuildUpArea, noc.PlotArea, noc.Bedrooms, noc.Bathrooms,
		noc.RentalAmount, noc.SaleAmount, noc.Parking,
		noc.AgreementType, noc.PeriodMonths, noc.AgreementDate,
		noc.ClientPhone, noc.Location, noc.Latitude, noc.Longitude).
		Scan(&noc.ID, &noc.CreatedAt, &noc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	ownerQuery := `
		INSERT INTO noc_owners (noc_id, position, name, emirates_id, issue_date, expiry_date,
			country_code, phone, signature_url, signature_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	for i := range noc.Owners {
		o := &noc.Owners[i]
		o.NOCID = noc.ID
		o.Position = i
		err := r.db.QueryRowContext(ctx, ownerQuery,
			noc.ID, o.Position, o.Name, o.EmiratesID, o.IssueDate, o.ExpiryDate,
			o.CountryCode, o.Phone, o.SignatureURL, o.SignatureDate).Scan(&o.ID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

const nocColumns = `id, property_type, building_project_name, community, street_name,
	build_up_area, plot_area, bedrooms, bathrooms, rental_amount, sale_amount, parking,
	agreement_type, period_months, agreement_date,
	client_phone, location, latitude, longitude, pdf_url, created_at, updated_at`

func (r *PostgresRepository) List(ctx context.Context) ([]*models.NOC, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nocColumns+` FROM nocs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.NOC
	byID := map[string]*models.NOC{}
	for rows.Next() {
		item, err := scanNOC(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	ownerRows, err := r.db.QueryContext(ctx, `
		SELECT id, noc_id, position, name, emirates_id, issue_date, expiry_date,
			country_code, phone, signature_url, signature_date
		FROM noc_owners
		ORDER BY noc_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer ownerRows.Close()

	for ownerRows.Next() {
		o, err := scanOwner(ownerRows)
		if err != nil {
			return nil, err
		}
		if parent, ok := byID[o.NOCID]; ok {
			parent.Owners = append(parent.Owners, o)
		}
	}
	if err := ownerRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.NOC, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nocColumns+` FROM nocs WHERE id = $1`, id)

	item, err := scanNOCRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	ownerRows, err := r.db.QueryContext(ctx, `
		SELECT id, noc_id, position, name, emirates_id, issue_date, expiry_date,
			country_code, phone, signature_url, signature_date
		FROM noc_owners
		WHERE noc_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer ownerRows.Close()

	for ownerRows.Next() {
		o, err := scanOwner(ownerRows)
		if err != nil {
			return nil, err
		}
		item.Owners = append(item.Owners, o)
	}
	if err := ownerRows.Err(); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *PostgresRepository) SetPDFURL(ctx context.Context, id string, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nocs SET pdf_url = $2, updated_at = now() WHERE id = $1`, id, url)
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

func scanInto(s scanner, item *models.NOC) error {
	return s.Scan(&item.ID, &item.PropertyType, &item.BuildingProjectName, &item.Community,
		&item.StreetName, &item.BuildUpArea, &item.PlotArea, &item.Bedrooms, &item.Bathrooms,
		&item.RentalAmount, &item.SaleAmount, &item.Parking,
		&item.AgreementType, &item.PeriodMonths, &item.AgreementDate,
		&item.ClientPhone, &item.Location, &item.Latitude, &item.Longitude,
		&item.PDFURL, &item.CreatedAt, &item.UpdatedAt)
}

func scanNOC(rows *sql.Rows) (*models.NOC, error) {
	item := &models.NOC{}
	if err := scanInto(rows, item); err != nil {
		return nil, err
	}
	return item, nil
}

func scanNOCRow(row *sql.Row) (*models.NOC, error) {
	item := &models.NOC{}
	if err := scanInto(row, item); err != nil {
		return nil, err
	}
	return item, nil
}

func scanOwner(rows *sql.Rows) (models.NOCOwner, error) {
	var o models.NOCOwner
	err := rows.Scan(&o.ID, &o.NOCID, &o.Position, &o.Name, &o.EmiratesID,
		&o.IssueDate, &o.ExpiryDate, &o.CountryCode, &o.Phone,
		&o.SignatureURL, &o.SignatureDate)
	return o, err
}
