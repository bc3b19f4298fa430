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

// SecretVault is the surface of the secrets service the handler needs.
type SecretVault interface {
	Create(ctx context.Context, actorID string, in *services.SecretInput) (*models.Secret, error)
	List(ctx context.Context, actorID string) ([]*models.SecretSummary, error)
	Get(ctx context.Context, actorID, id string) (*models.Secret, error)
	Update(ctx context.Context, actorID, id string, patch *services.SecretPatch) (*models.Secret, error)
	Delete(ctx context.Context, actorID, id string) error
}

type SecretHandler struct {
	service  SecretVault
	validate *validator.Validate
}

func NewSecretHandler(service SecretVault) *SecretHandler {
	return &SecretHandler{service: service, validate: validator.New()}
}

type createSecretRequest struct {
	Title     string   `json:"title" validate:"required"`
	Note      string   `json:"note"`
	Username  string   `json:"username" validate:"required"`
	Password  string   `json:"password" validate:"required"`
	AccessIDs []string `json:"accessIds"`
}

type updateSecretRequest struct {
	Title     *string   `json:"title"`
	Note      *string   `json:"note"`
	Username  *string   `json:"username"`
	Password  *string   `json:"password"`
	AccessIDs *[]string `json:"accessIds"`
}

func (h *SecretHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		BadRequest(w, err.Error())
		return
	}

	actor := GetActor(r)

	secret, err := h.service.Create(r.Context(), actor.ID, &services.SecretInput{
		Title:     req.Title,
		Note:      req.Note,
		Username:  req.Username,
		Password:  req.Password,
		AccessIDs: req.AccessIDs,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, secret)
}

func (h *SecretHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r)

	summaries, err := h.service.List(r.Context(), actor.ID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	Success(w, summaries)
}

func (h *SecretHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r)

	secret, err := h.service.Get(r.Context(), actor.ID, mux.Vars(r)["id"])
	if err != nil {
		ServiceError(w, err)
		return
	}

	Success(w, secret)
}

func (h *SecretHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}

	actor := GetActor(r)

	secret, err := h.service.Update(r.Context(), actor.ID, mux.Vars(r)["id"], &services.SecretPatch{
		Title:     req.Title,
		Note:      req.Note,
		Username:  req.Username,
		Password:  req.Password,
		AccessIDs: req.AccessIDs,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	Success(w, secret)
}

func (h *SecretHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r)

	if err := h.service.Delete(r.Context(), actor.ID, mux.Vars(r)["id"]); err != nil {
		ServiceError(w, err)
		return
	}

	Success(w, map[string]string{"status": "deleted"})
}
