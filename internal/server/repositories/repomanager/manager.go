package repomanager

import (
	"context"
	"database/sql"

	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/activity"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/agentcreds"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/drafts"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/nocs"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/secrets"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/watermarks"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Secrets(db dbx.DBTX) secrets.Repository
	AgentCreds(db dbx.DBTX) agentcreds.Repository
	NOCs(db dbx.DBTX) nocs.Repository
	Watermarks(db dbx.DBTX) watermarks.Repository
	Drafts(db dbx.DBTX) drafts.Repository
	Activity(db dbx.DBTX) activity.Repository
}
