package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

// ActivityRecorder is the surface of the activity service the handler needs.
type ActivityRecorder interface {
	Log(ctx context.Context, entry *models.ActivityLog) (*models.ActivityLog, error)
	List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityLog, error)
}

type ActivityHandler struct {
	service  ActivityRecorder
	validate *validator.Validate
}

func NewActivityHandler(service ActivityRecorder) *ActivityHandler {
	return &ActivityHandler{service: service, validate: validator.New()}
}

type createActivityRequest struct {
	Action  string `json:"action" validate:"required"`
	Details string `json:"details"`
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		BadRequest(w, err.Error())
		return
	}

	actor := GetActor(r)

	entry, err := h.service.Log(r.Context(), &models.ActivityLog{
		UserID:    actor.ID,
		UserName:  actor.Name,
		UserEmail: actor.Email,
		Action:    req.Action,
		Details:   req.Details,
		IP:        clientIP(r),
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, entry)
}

// List supports ?search=&startDate=&endDate=&skip=&take=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ActivityFilter{
		Search: q.Get("search"),
	}
	if v := q.Get("startDate"); v != "" {
		filter.StartDate = parseQueryDate(v)
	}
	if v := q.Get("endDate"); v != "" {
		filter.EndDate = parseQueryDate(v)
	}
	if v, err := strconv.Atoi(q.Get("skip")); err == nil && v > 0 {
		filter.Skip = v
	}
	if v, err := strconv.Atoi(q.Get("take")); err == nil && v > 0 {
		filter.Take = v
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, list)
}

// parseQueryDate accepts RFC3339 or plain dates, nil when unparsable.
func parseQueryDate(v string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// clientIP resolves the caller address, preferring the first hop of
// X-Forwarded-For, then X-Real-IP.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
