package activity

import (
	"context"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, log *models.ActivityLog) (*models.ActivityLog, error)
	List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityLog, error)
}
