package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// Uploader is the surface of the upload service the handler needs.
type Uploader interface {
	UploadFile(ctx context.Context, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, url string)
	GetOptimizedImage(ctx context.Context, url string, width, quality int) ([]byte, error)
}

type UploadHandler struct {
	service Uploader
}

func NewUploadHandler(service Uploader) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload stores the multipart "file" part and returns its public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxNOCFormSize); err != nil {
		BadRequest(w, "invalid multipart form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, "file is required")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		BadRequest(w, "unreadable file")
		return
	}

	url, err := h.service.UploadFile(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, map[string]string{"url": url})
}

type deleteUploadRequest struct {
	URL string `json:"url"`
}

// Delete removes a stored object named by its public URL.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request payload")
		return
	}
	if req.URL == "" {
		BadRequest(w, "url is required")
		return
	}

	h.service.DeleteFile(r.Context(), req.URL)
	Success(w, map[string]string{"message": "file deleted"})
}

// Optimize serves a resized JPEG rendition of a remote image
// (?url=&w=&q=). On any failure it redirects to the original so images
// always display.
func (h *UploadHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	url := q.Get("url")
	if url == "" {
		BadRequest(w, "url is required")
		return
	}

	width, _ := strconv.Atoi(q.Get("w"))
	quality, _ := strconv.Atoi(q.Get("q"))

	data, err := h.service.GetOptimizedImage(r.Context(), url, width, quality)
	if err != nil {
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
