package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/blob"
)

const (
	optimizeMaxWidth  = 1920
	optimizeMaxHeight = 1080
	optimizeQuality   = 80
)

// fetchRemote is a seam for testing remote image retrieval.
var fetchRemote = func(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// UploadService stores arbitrary uploads and serves resized images. Images
// are shrunk to fit 1920x1080 and re-encoded as JPEG before storage; files
// that are not images (or fail to decode) are stored untouched.
type UploadService struct {
	blob   blob.Store
	logger logging.Logger
}

func NewUploadService(store blob.Store, logger logging.Logger) *UploadService {
	return &UploadService{blob: store, logger: logger}
}

func isOptimizableImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

// UploadFile stores the payload and returns its public URL.
func (s *UploadService) UploadFile(ctx context.Context, data []byte, contentType string) (string, error) {
	if isOptimizableImage(contentType) {
		if optimized, err := optimizeImage(data); err != nil {
			s.logger.Warn(ctx, "image optimization failed, storing original", "error", err)
		} else {
			data = optimized
			contentType = "image/jpeg"
		}
	}

	url, err := s.blob.Store(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("error storing upload: %w", err)
	}
	return url, nil
}

// DeleteFile removes a stored object by its public URL. Deletion is
// best-effort: a storage failure is logged and not surfaced.
func (s *UploadService) DeleteFile(ctx context.Context, url string) {
	if err := s.blob.Delete(ctx, url); err != nil {
		s.logger.Warn(ctx, "upload delete failed", "url", url, "error", err)
	}
}

// optimizeImage fits the image into the optimization bounds and re-encodes
// it as JPEG. Images already within bounds are still re-encoded.
func optimizeImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > optimizeMaxWidth || bounds.Dy() > optimizeMaxHeight {
		img = imaging.Fit(img, optimizeMaxWidth, optimizeMaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(optimizeQuality)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// GetOptimizedImage fetches a remote image and returns it resized to the
// requested width and JPEG quality. Width or quality of 0 keep the source
// dimension / default quality.
func (s *UploadService) GetOptimizedImage(ctx context.Context, url string, width, quality int) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("invalid image url %q", url)
	}

	data, err := fetchRemote(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	if quality <= 0 || quality > 100 {
		quality = optimizeQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
