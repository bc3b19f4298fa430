package secrets

import (
	"context"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	List(ctx context.Context) ([]*models.Secret, error)
	Get(ctx context.Context, id string) (*models.Secret, error)
	Update(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	Delete(ctx context.Context, id string) error
}
