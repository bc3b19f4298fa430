package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
)

// DraftService stores unfinished property listings as opaque JSON payloads.
type DraftService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDraftService(db *sql.DB, m repomanager.RepositoryManager) *DraftService {
	return &DraftService{db: db, repomanager: m}
}

type DraftInput struct {
	ID                 string
	UserID             string
	OriginalPropertyID *string
	Data               json.RawMessage
}

// CreateOrUpdate saves the draft, updating in place when the id names an
// existing record and creating a new one otherwise.
func (s *DraftService) CreateOrUpdate(ctx context.Context, in *DraftInput) (*models.PropertyDraft, error) {
	repo := s.repomanager.Drafts(s.db)

	draft := &models.PropertyDraft{
		ID:                 in.ID,
		UserID:             in.UserID,
		OriginalPropertyID: in.OriginalPropertyID,
		Data:               in.Data,
	}

	if in.ID != "" && validID(in.ID) {
		if _, err := repo.Get(ctx, in.ID); err == nil {
			updated, err := repo.Update(ctx, draft)
			if err != nil {
				return nil, fmt.Errorf("error updating draft: %w", err)
			}
			return updated, nil
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	draft.ID = ""
	created, err := repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("error creating draft: %w", err)
	}
	return created, nil
}

// List returns drafts newest-updated-first, optionally scoped to one user.
func (s *DraftService) List(ctx context.Context, userID string) ([]*models.PropertyDraft, error) {
	repo := s.repomanager.Drafts(s.db)

	list, err := repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing drafts: %w", err)
	}
	return list, nil
}

func (s *DraftService) Get(ctx context.Context, id string) (*models.PropertyDraft, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}
	repo := s.repomanager.Drafts(s.db)
	return repo.Get(ctx, id)
}

func (s *DraftService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}
	repo := s.repomanager.Drafts(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting draft: %w", err)
	}
	return nil
}
