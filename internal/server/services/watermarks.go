package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/blob"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
)

// WatermarkService manages branding presets. Image presets keep their asset
// in the blob store; at most one preset is active at any moment.
type WatermarkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blob        blob.Store
	logger      logging.Logger
}

func NewWatermarkService(db *sql.DB, m repomanager.RepositoryManager, store blob.Store, logger logging.Logger) *WatermarkService {
	return &WatermarkService{db: db, repomanager: m, blob: store, logger: logger}
}

type WatermarkInput struct {
	Name      string
	Type      string
	Text      *string
	TextColor string
	Position  string
	Opacity   float64
	Scale     float64
	Rotation  float64
	BlendMode string
	IsActive  bool
}

type WatermarkPatch struct {
	Name      *string
	Text      *string
	TextColor *string
	Position  *string
	Opacity   *float64
	Scale     *float64
	Rotation  *float64
	BlendMode *string
}

// ImageFile is an uploaded watermark asset.
type ImageFile struct {
	Data        []byte
	ContentType string
}

func (s *WatermarkService) Create(ctx context.Context, in *WatermarkInput, image *ImageFile) (*models.Watermark, error) {
	wm := &models.Watermark{
		Name:      in.Name,
		Type:      in.Type,
		Text:      in.Text,
		TextColor: in.TextColor,
		Position:  in.Position,
		Opacity:   in.Opacity,
		Scale:     in.Scale,
		Rotation:  in.Rotation,
		BlendMode: in.BlendMode,
		IsActive:  in.IsActive,
	}

	if in.Type == models.WatermarkTypeImage {
		if image == nil {
			return nil, fmt.Errorf("image watermark requires a file: %w", common.ErrValidation)
		}
		url, err := s.blob.Store(ctx, image.Data, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("error storing watermark image: %w", err)
		}
		wm.ImageURL = &url
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Watermarks(tx)
		if wm.IsActive {
			if err := repo.DeactivateAll(ctx); err != nil {
				return err
			}
		}
		created, err := repo.Create(ctx, wm)
		if err != nil {
			return err
		}
		*wm = *created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating watermark: %w", err)
	}

	return wm, nil
}

func (s *WatermarkService) List(ctx context.Context) ([]*models.Watermark, error) {
	repo := s.repomanager.Watermarks(s.db)

	list, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing watermarks: %w", err)
	}
	return list, nil
}

func (s *WatermarkService) Get(ctx context.Context, id string) (*models.Watermark, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}
	repo := s.repomanager.Watermarks(s.db)
	return repo.Get(ctx, id)
}

// GetActive returns the currently active preset, NotFound when none is.
func (s *WatermarkService) GetActive(ctx context.Context) (*models.Watermark, error) {
	repo := s.repomanager.Watermarks(s.db)
	return repo.GetActive(ctx)
}

func (s *WatermarkService) Update(ctx context.Context, id string, patch *WatermarkPatch, image *ImageFile) (*models.Watermark, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.Watermarks(s.db)
	wm, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		wm.Name = *patch.Name
	}
	if patch.Text != nil {
		wm.Text = patch.Text
	}
	if patch.TextColor != nil {
		wm.TextColor = *patch.TextColor
	}
	if patch.Position != nil {
		wm.Position = *patch.Position
	}
	if patch.Opacity != nil {
		wm.Opacity = *patch.Opacity
	}
	if patch.Scale != nil {
		wm.Scale = *patch.Scale
	}
	if patch.Rotation != nil {
		wm.Rotation = *patch.Rotation
	}
	if patch.BlendMode != nil {
		wm.BlendMode = *patch.BlendMode
	}

	if image != nil {
		url, err := s.blob.Store(ctx, image.Data, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("error storing watermark image: %w", err)
		}
		if wm.ImageURL != nil {
			if err := s.blob.Delete(ctx, *wm.ImageURL); err != nil {
				s.logger.Warn(ctx, "stale watermark image not deleted", "url", *wm.ImageURL, "error", err)
			}
		}
		wm.ImageURL = &url
	}

	wm, err = repo.Update(ctx, wm)
	if err != nil {
		return nil, fmt.Errorf("error updating watermark: %w", err)
	}
	return wm, nil
}

// Activate makes the preset the single active one. Deactivation of the rest
// and activation happen in one transaction so no observer sees two active
// presets.
func (s *WatermarkService) Activate(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Watermarks(tx)
		if err := repo.DeactivateAll(ctx); err != nil {
			return err
		}
		return repo.SetActive(ctx, id, true)
	})
}

func (s *WatermarkService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}

	repo := s.repomanager.Watermarks(s.db)
	wm, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting watermark: %w", err)
	}

	if wm.ImageURL != nil {
		if err := s.blob.Delete(ctx, *wm.ImageURL); err != nil {
			s.logger.Warn(ctx, "watermark image not deleted", "url", *wm.ImageURL, "error", err)
		}
	}
	return nil
}
