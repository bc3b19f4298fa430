package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/cryptox"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
)

// AgentCredService manages portal logins issued to agents. Passwords are
// encrypted at rest and decrypted on every read; there is no per-record
// ACL, page-level permissions guard the whole module.
type AgentCredService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      cryptox.Cipher
}

func NewAgentCredService(db *sql.DB, m repomanager.RepositoryManager, cipher cryptox.Cipher) *AgentCredService {
	return &AgentCredService{db: db, repomanager: m, cipher: cipher}
}

type AgentCredInput struct {
	AgentID  string
	Email    string
	Password string
}

type AgentCredPatch struct {
	AgentID  *string
	Email    *string
	Password *string
}

func (s *AgentCredService) Create(ctx context.Context, in *AgentCredInput) (*models.AgentCredential, error) {
	passwordEnc, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error encrypting password: %w", err)
	}

	cred := &models.AgentCredential{
		AgentID:  in.AgentID,
		Email:    in.Email,
		Password: passwordEnc,
	}

	repo := s.repomanager.AgentCreds(s.db)
	cred, err = repo.Create(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("error creating agent credential: %w", err)
	}

	cred.Password = in.Password
	return cred, nil
}

func (s *AgentCredService) List(ctx context.Context) ([]*models.AgentCredential, error) {
	repo := s.repomanager.AgentCreds(s.db)

	creds, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing agent credentials: %w", err)
	}

	for _, cred := range creds {
		password, err := s.cipher.Decrypt(cred.Password)
		if err != nil {
			return nil, fmt.Errorf("error decrypting password: %w", err)
		}
		cred.Password = password
	}
	return creds, nil
}

func (s *AgentCredService) Get(ctx context.Context, id string) (*models.AgentCredential, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.AgentCreds(s.db)
	cred, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	password, err := s.cipher.Decrypt(cred.Password)
	if err != nil {
		return nil, fmt.Errorf("error decrypting password: %w", err)
	}
	cred.Password = password
	return cred, nil
}

func (s *AgentCredService) Update(ctx context.Context, id string, patch *AgentCredPatch) (*models.AgentCredential, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.AgentCreds(s.db)
	cred, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.AgentID != nil {
		cred.AgentID = *patch.AgentID
	}
	if patch.Email != nil {
		cred.Email = *patch.Email
	}
	if patch.Password != nil {
		if cred.Password, err = s.cipher.Encrypt(*patch.Password); err != nil {
			return nil, fmt.Errorf("error encrypting password: %w", err)
		}
	}

	cred, err = repo.Update(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("error updating agent credential: %w", err)
	}

	password, err := s.cipher.Decrypt(cred.Password)
	if err != nil {
		return nil, fmt.Errorf("error decrypting password: %w", err)
	}
	cred.Password = password
	return cred, nil
}

func (s *AgentCredService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}

	repo := s.repomanager.AgentCreds(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting agent credential: %w", err)
	}
	return nil
}
