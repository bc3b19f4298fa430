// Package services implements the application logic between the HTTP layer
// and the repositories.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/cryptox"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
)

// SecretService manages password-vault records. Username and password are
// encrypted before they reach the repository and decrypted only for actors
// the record grants access to.
type SecretService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      cryptox.Cipher
}

func NewSecretService(db *sql.DB, m repomanager.RepositoryManager, cipher cryptox.Cipher) *SecretService {
	return &SecretService{db: db, repomanager: m, cipher: cipher}
}

type SecretInput struct {
	Title     string
	Note      string
	Username  string
	Password  string
	AccessIDs []string
}

// SecretPatch is a partial update. Nil fields are left unchanged, which
// keeps "clear the note" (empty string) distinct from "don't touch it".
type SecretPatch struct {
	Title     *string
	Note      *string
	Username  *string
	Password  *string
	AccessIDs *[]string
}

// validID reports whether id can possibly name a record. Garbage ids are
// treated the same as absent records.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *SecretService) Create(ctx context.Context, actorID string, in *SecretInput) (*models.Secret, error) {
	usernameEnc, err := s.cipher.Encrypt(in.Username)
	if err != nil {
		return nil, fmt.Errorf("error encrypting username: %w", err)
	}
	passwordEnc, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error encrypting password: %w", err)
	}

	accessIDs := in.AccessIDs
	if accessIDs == nil {
		accessIDs = []string{}
	}

	secret := &models.Secret{
		Title:     in.Title,
		Note:      in.Note,
		Username:  usernameEnc,
		Password:  passwordEnc,
		AccessIDs: accessIDs,
		CreatedBy: actorID,
	}

	repo := s.repomanager.Secrets(s.db)
	secret, err = repo.Create(ctx, secret)
	if err != nil {
		return nil, fmt.Errorf("error creating secret: %w", err)
	}

	// hand plaintext back to the creator
	secret.Username = in.Username
	secret.Password = in.Password
	return secret, nil
}

// List returns newest-first summaries visible to every actor. Credential
// material never appears here, only whether the actor could open the record.
func (s *SecretService) List(ctx context.Context, actorID string) ([]*models.SecretSummary, error) {
	repo := s.repomanager.Secrets(s.db)

	all, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing secrets: %w", err)
	}

	summaries := make([]*models.SecretSummary, 0, len(all))
	for _, sec := range all {
		summaries = append(summaries, &models.SecretSummary{
			ID:        sec.ID,
			Title:     sec.Title,
			Note:      sec.Note,
			CreatedAt: sec.CreatedAt,
			HasAccess: sec.CanAccess(actorID),
		})
	}
	return summaries, nil
}

// getAccessible loads the record and enforces access. Absence is reported
// before authorization so callers cannot probe which ids exist.
func (s *SecretService) getAccessible(ctx context.Context, actorID, id string) (*models.Secret, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.Secrets(s.db)
	secret, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !secret.CanAccess(actorID) {
		return nil, common.ErrForbidden
	}
	return secret, nil
}

func (s *SecretService) decrypt(secret *models.Secret) error {
	username, err := s.cipher.Decrypt(secret.Username)
	if err != nil {
		return fmt.Errorf("error decrypting username: %w", err)
	}
	password, err := s.cipher.Decrypt(secret.Password)
	if err != nil {
		return fmt.Errorf("error decrypting password: %w", err)
	}
	secret.Username = username
	secret.Password = password
	return nil
}

func (s *SecretService) Get(ctx context.Context, actorID, id string) (*models.Secret, error) {
	secret, err := s.getAccessible(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.decrypt(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

func (s *SecretService) Update(ctx context.Context, actorID, id string, patch *SecretPatch) (*models.Secret, error) {
	secret, err := s.getAccessible(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		secret.Title = *patch.Title
	}
	if patch.Note != nil {
		secret.Note = *patch.Note
	}
	if patch.AccessIDs != nil {
		secret.AccessIDs = *patch.AccessIDs
	}

	if patch.Username != nil {
		if secret.Username, err = s.cipher.Encrypt(*patch.Username); err != nil {
			return nil, fmt.Errorf("error encrypting username: %w", err)
		}
	}
	if patch.Password != nil {
		if secret.Password, err = s.cipher.Encrypt(*patch.Password); err != nil {
			return nil, fmt.Errorf("error encrypting password: %w", err)
		}
	}

	repo := s.repomanager.Secrets(s.db)
	secret, err = repo.Update(ctx, secret)
	if err != nil {
		return nil, fmt.Errorf("error updating secret: %w", err)
	}

	if err := s.decrypt(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

func (s *SecretService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.getAccessible(ctx, actorID, id); err != nil {
		return err
	}

	repo := s.repomanager.Secrets(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting secret: %w", err)
	}
	return nil
}
