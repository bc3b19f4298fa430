package agentcreds

import (
	"context"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cred *models.AgentCredential) (*models.AgentCredential, error)
	List(ctx context.Context) ([]*models.AgentCredential, error)
	Get(ctx context.Context, id string) (*models.AgentCredential, error)
	Update(ctx context.Context, cred *models.AgentCredential) (*models.AgentCredential, error)
	Delete(ctx context.Context, id string) error
}
