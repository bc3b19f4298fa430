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

// DraftStore is the surface of the draft service the handler needs.
type DraftStore interface {
	CreateOrUpdate(ctx context.Context, in *services.DraftInput) (*models.PropertyDraft, error)
	List(ctx context.Context, userID string) ([]*models.PropertyDraft, error)
	Get(ctx context.Context, id string) (*models.PropertyDraft, error)
	Delete(ctx context.Context, id string) error
}

type DraftHandler struct {
	service  DraftStore
	validate *validator.Validate
}

func NewDraftHandler(service DraftStore) *DraftHandler {
	return &DraftHandler{service: service, validate: validator.New()}
}

type saveDraftRequest struct {
	ID                 string          `json:"id"`
	OriginalPropertyID *string         `json:"originalPropertyId"`
	Data               json.RawMessage `json:"data" validate:"required"`
}

func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		BadRequest(w, err.Error())
		return
	}

	actor := GetActor(r)

	draft, err := h.service.CreateOrUpdate(r.Context(), &services.DraftInput{
		ID:                 req.ID,
		UserID:             actor.ID,
		OriginalPropertyID: req.OriginalPropertyID,
		Data:               req.Data,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, draft)
}

// List returns drafts, scoped to one user when ?userId= is supplied.
func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, drafts)
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, draft)
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, map[string]string{"status": "deleted"})
}
