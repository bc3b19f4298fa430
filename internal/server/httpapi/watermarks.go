package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/services"
)

// WatermarkStore is the surface of the watermark service the handler needs.
type WatermarkStore interface {
	Create(ctx context.Context, in *services.WatermarkInput, image *services.ImageFile) (*models.Watermark, error)
	List(ctx context.Context) ([]*models.Watermark, error)
	Get(ctx context.Context, id string) (*models.Watermark, error)
	GetActive(ctx context.Context) (*models.Watermark, error)
	Update(ctx context.Context, id string, patch *services.WatermarkPatch, image *services.ImageFile) (*models.Watermark, error)
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type WatermarkHandler struct {
	service  WatermarkStore
	validate *validator.Validate
}

func NewWatermarkHandler(service WatermarkStore) *WatermarkHandler {
	return &WatermarkHandler{service: service, validate: validator.New()}
}

type createWatermarkRequest struct {
	Name      string  `json:"name" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=image text"`
	Text      *string `json:"text"`
	TextColor string  `json:"textColor"`
	Position  string  `json:"position"`
	Opacity   float64 `json:"opacity"`
	Scale     float64 `json:"scale"`
	Rotation  float64 `json:"rotation"`
	BlendMode string  `json:"blendMode"`
	IsActive  bool    `json:"isActive"`
}

type updateWatermarkRequest struct {
	Name      *string  `json:"name"`
	Text      *string  `json:"text"`
	TextColor *string  `json:"textColor"`
	Position  *string  `json:"position"`
	Opacity   *float64 `json:"opacity"`
	Scale     *float64 `json:"scale"`
	Rotation  *float64 `json:"rotation"`
	BlendMode *string  `json:"blendMode"`
}

// imageFromForm extracts the optional "image" part of a multipart request.
func imageFromForm(r *http.Request) (*services.ImageFile, error) {
	f, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.ImageFile{Data: data, ContentType: header.Header.Get("Content-Type")}, nil
}

// Create accepts a plain JSON body for text presets or a multipart form
// ("data" JSON part + "image" file) for image presets.
func (h *WatermarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWatermarkRequest
	var image *services.ImageFile

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxNOCFormSize); err != nil {
			BadRequest(w, "invalid multipart form")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			BadRequest(w, "invalid data payload")
			return
		}
		var err error
		if image, err = imageFromForm(r); err != nil {
			BadRequest(w, "unreadable image file")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			BadRequest(w, "invalid request payload")
			return
		}
	}

	if err := h.validate.Struct(req); err != nil {
		BadRequest(w, err.Error())
		return
	}

	wm, err := h.service.Create(r.Context(), &services.WatermarkInput{
		Name:      req.Name,
		Type:      req.Type,
		Text:      req.Text,
		TextColor: req.TextColor,
		Position:  req.Position,
		Opacity:   req.Opacity,
		Scale:     req.Scale,
		Rotation:  req.Rotation,
		BlendMode: req.BlendMode,
		IsActive:  req.IsActive,
	}, image)
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, wm)
}

func (h *WatermarkHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, list)
}

func (h *WatermarkHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	wm, err := h.service.GetActive(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, wm)
}

func (h *WatermarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	wm, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, wm)
}

func (h *WatermarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateWatermarkRequest
	var image *services.ImageFile

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxNOCFormSize); err != nil {
			BadRequest(w, "invalid multipart form")
			return
		}
		if data := r.FormValue("data"); data != "" {
			if err := json.Unmarshal([]byte(data), &req); err != nil {
				BadRequest(w, "invalid data payload")
				return
			}
		}
		var err error
		if image, err = imageFromForm(r); err != nil {
			BadRequest(w, "unreadable image file")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			BadRequest(w, "invalid request payload")
			return
		}
	}

	wm, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &services.WatermarkPatch{
		Name:      req.Name,
		Text:      req.Text,
		TextColor: req.TextColor,
		Position:  req.Position,
		Opacity:   req.Opacity,
		Scale:     req.Scale,
		Rotation:  req.Rotation,
		BlendMode: req.BlendMode,
	}, image)
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, wm)
}

func (h *WatermarkHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Activate(r.Context(), mux.Vars(r)["id"]); err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, map[string]string{"status": "activated"})
}

func (h *WatermarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, map[string]string{"status": "deleted"})
}
