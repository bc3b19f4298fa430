package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Secrets    *SecretHandler
	AgentCreds *AgentCredHandler
	NOCs       *NOCHandler
	Watermarks *WatermarkHandler
	Drafts     *DraftHandler
	Activity   *ActivityHandler
	Uploads    *UploadHandler
}

// NewRouter mounts all module routes under /api behind the auth and logging
// middleware. /health stays open for probes.
func NewRouter(h *Handlers, jwtSecret []byte, logger logging.Logger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(jwtSecret))
	api.Use(LoggerMiddleware(logger))

	api.HandleFunc("/secrets", h.Secrets.Create).Methods(http.MethodPost)
	api.HandleFunc("/secrets", h.Secrets.List).Methods(http.MethodGet)
	api.HandleFunc("/secrets/{id}", h.Secrets.Get).Methods(http.MethodGet)
	api.HandleFunc("/secrets/{id}", h.Secrets.Update).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/secrets/{id}", h.Secrets.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/agent-credentials", h.AgentCreds.Create).Methods(http.MethodPost)
	api.HandleFunc("/agent-credentials", h.AgentCreds.List).Methods(http.MethodGet)
	api.HandleFunc("/agent-credentials/{id}", h.AgentCreds.Get).Methods(http.MethodGet)
	api.HandleFunc("/agent-credentials/{id}", h.AgentCreds.Update).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/agent-credentials/{id}", h.AgentCreds.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/nocs", h.NOCs.Create).Methods(http.MethodPost)
	api.HandleFunc("/nocs", h.NOCs.List).Methods(http.MethodGet)
	api.HandleFunc("/nocs/{id}", h.NOCs.Get).Methods(http.MethodGet)
	api.HandleFunc("/nocs/{id}/pdf", h.NOCs.GetPdf).Methods(http.MethodGet)

	api.HandleFunc("/watermarks", h.Watermarks.Create).Methods(http.MethodPost)
	api.HandleFunc("/watermarks", h.Watermarks.List).Methods(http.MethodGet)
	api.HandleFunc("/watermarks/active", h.Watermarks.GetActive).Methods(http.MethodGet)
	api.HandleFunc("/watermarks/{id}", h.Watermarks.Get).Methods(http.MethodGet)
	api.HandleFunc("/watermarks/{id}", h.Watermarks.Update).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/watermarks/{id}/activate", h.Watermarks.Activate).Methods(http.MethodPost)
	api.HandleFunc("/watermarks/{id}", h.Watermarks.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/drafts", h.Drafts.Save).Methods(http.MethodPost)
	api.HandleFunc("/drafts", h.Drafts.List).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{id}", h.Drafts.Get).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{id}", h.Drafts.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/activity", h.Activity.Create).Methods(http.MethodPost)
	api.HandleFunc("/activity", h.Activity.List).Methods(http.MethodGet)

	api.HandleFunc("/uploads", h.Uploads.Upload).Methods(http.MethodPost)
	api.HandleFunc("/uploads", h.Uploads.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/uploads/optimize", h.Uploads.Optimize).Methods(http.MethodGet)

	return r
}
