package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/services"
)

// AgentCredStore is the surface of the agent credential service the handler
// needs.
type AgentCredStore interface {
	Create(ctx context.Context, in *services.AgentCredInput) (*models.AgentCredential, error)
	List(ctx context.Context) ([]*models.AgentCredential, error)
	Get(ctx context.Context, id string) (*models.AgentCredential, error)
	Update(ctx context.Context, id string, patch *services.AgentCredPatch) (*models.AgentCredential, error)
	Delete(ctx context.Context, id string) error
}

type AgentCredHandler struct {
	service  AgentCredStore
	validate *validator.Validate
}

func NewAgentCredHandler(service AgentCredStore) *AgentCredHandler {
	return &AgentCredHandler{service: service, validate: validator.New()}
}

type createAgentCredRequest struct {
	AgentID  string `json:"agentId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateAgentCredRequest struct {
	AgentID  *string `json:"agentId"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *AgentCredHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAgentCredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		BadRequest(w, err.Error())
		return
	}

	cred, err := h.service.Create(r.Context(), &services.AgentCredInput{
		AgentID:  req.AgentID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, cred)
}

func (h *AgentCredHandler) List(w http.ResponseWriter, r *http.Request) {
	creds, err := h.service.List(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, creds)
}

func (h *AgentCredHandler) Get(w http.ResponseWriter, r *http.Request) {
	cred, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, cred)
}

func (h *AgentCredHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateAgentCredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}

	cred, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &services.AgentCredPatch{
		AgentID:  req.AgentID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, cred)
}

func (h *AgentCredHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, map[string]string{"status": "deleted"})
}
