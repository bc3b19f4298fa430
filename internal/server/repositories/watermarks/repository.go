package watermarks

import (
	"context"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, wm *models.Watermark) (*models.Watermark, error)
	List(ctx context.Context) ([]*models.Watermark, error)
	Get(ctx context.Context, id string) (*models.Watermark, error)
	GetActive(ctx context.Context) (*models.Watermark, error)
	Update(ctx context.Context, wm *models.Watermark) (*models.Watermark, error)
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
