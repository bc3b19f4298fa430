// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/migrations"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/activity"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/agentcreds"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/drafts"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/nocs"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/secrets"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/watermarks"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Secrets returns a secrets.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Secrets(db dbx.DBTX) secrets.Repository {
	return secrets.NewPostgresRepository(db)
}

// AgentCreds returns an agentcreds.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) AgentCreds(db dbx.DBTX) agentcreds.Repository {
	return agentcreds.NewPostgresRepository(db)
}

// NOCs returns a nocs.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) NOCs(db dbx.DBTX) nocs.Repository {
	return nocs.NewPostgresRepository(db)
}

// Watermarks returns a watermarks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Watermarks(db dbx.DBTX) watermarks.Repository {
	return watermarks.NewPostgresRepository(db)
}

// Drafts returns a drafts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Drafts(db dbx.DBTX) drafts.Repository {
	return drafts.NewPostgresRepository(db)
}

// Activity returns an activity.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Activity(db dbx.DBTX) activity.Repository {
	return activity.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
