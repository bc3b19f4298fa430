package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
)

// ActivityService records and lists audit events.
type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewActivityService(db *sql.DB, m repomanager.RepositoryManager) *ActivityService {
	return &ActivityService{db: db, repomanager: m}
}

func (s *ActivityService) Log(ctx context.Context, entry *models.ActivityLog) (*models.ActivityLog, error) {
	repo := s.repomanager.Activity(s.db)

	entry, err := repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating activity log: %w", err)
	}
	return entry, nil
}

func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityLog, error) {
	repo := s.repomanager.Activity(s.db)

	list, err := repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing activity logs: %w", err)
	}
	return list, nil
}
