package drafts

import (
	"context"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, draft *models.PropertyDraft) (*models.PropertyDraft, error)
	Update(ctx context.Context, draft *models.PropertyDraft) (*models.PropertyDraft, error)
	Get(ctx context.Context, id string) (*models.PropertyDraft, error)
	List(ctx context.Context, userID string) ([]*models.PropertyDraft, error)
	Delete(ctx context.Context, id string) error
}
