package nocs

import (
	"context"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, noc *models.NOC) error
	List(ctx context.Context) ([]*models.NOC, error)
	Get(ctx context.Context, id string) (*models.NOC, error)
	SetPDFURL(ctx context.Context, id string, url string) error
}
