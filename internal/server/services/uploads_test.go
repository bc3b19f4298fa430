package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y += 10 {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadFile_OptimizesLargeImage(t *testing.T) {
	store := newFakeBlob()
	svc := NewUploadService(store, testLogger())

	url, err := svc.UploadFile(context.Background(), pngBytes(t, 4000, 3000), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", store.types[url], "optimized uploads become jpeg")

	img, err := imaging.Decode(bytes.NewReader(store.objects[url]))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 1920)
	assert.LessOrEqual(t, img.Bounds().Dy(), 1080)
}

func TestUploadFile_NonImagePassesThrough(t *testing.T) {
	store := newFakeBlob()
	svc := NewUploadService(store, testLogger())

	payload := []byte("%PDF-1.4 not an image")
	url, err := svc.UploadFile(context.Background(), payload, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", store.types[url])
	assert.Equal(t, payload, store.objects[url])
}

func TestUploadFile_UndecodableImageStoredAsIs(t *testing.T) {
	store := newFakeBlob()
	svc := NewUploadService(store, testLogger())

	payload := []byte("pretends to be a png")
	url, err := svc.UploadFile(context.Background(), payload, "image/png")
	require.NoError(t, err, "decode failure falls back to the original bytes")
	assert.Equal(t, payload, store.objects[url])
	assert.Equal(t, "image/png", store.types[url])
}

func TestDeleteFile_RemovesObject(t *testing.T) {
	store := newFakeBlob()
	svc := NewUploadService(store, testLogger())

	url, err := svc.UploadFile(context.Background(), []byte("doc"), "application/pdf")
	require.NoError(t, err)

	svc.DeleteFile(context.Background(), url)
	assert.Contains(t, store.deleted, url)
	assert.NotContains(t, store.objects, url)
}

func TestDeleteFile_SwallowsStorageFailure(t *testing.T) {
	store := newFakeBlob()
	store.failDelete = true
	svc := NewUploadService(store, testLogger())

	svc.DeleteFile(context.Background(), "https://blob.test/1")
	assert.Empty(t, store.deleted)
}

func TestGetOptimizedImage_ResizesToWidth(t *testing.T) {
	orig := fetchRemote
	defer func() { fetchRemote = orig }()
	fetchRemote = func(ctx context.Context, url string) ([]byte, error) {
		return pngBytes(t, 800, 600), nil
	}

	svc := NewUploadService(newFakeBlob(), testLogger())

	data, err := svc.GetOptimizedImage(context.Background(), "https://img.test/p.png", 200, 70)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy(), "aspect ratio preserved")
}

func TestGetOptimizedImage_Errors(t *testing.T) {
	orig := fetchRemote
	defer func() { fetchRemote = orig }()

	svc := NewUploadService(newFakeBlob(), testLogger())

	_, err := svc.GetOptimizedImage(context.Background(), "ftp://nope", 100, 70)
	assert.Error(t, err, "non-http url rejected")

	fetchRemote = func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("unreachable")
	}
	_, err = svc.GetOptimizedImage(context.Background(), "https://img.test/p.png", 100, 70)
	assert.Error(t, err)

	fetchRemote = func(ctx context.Context, url string) ([]byte, error) {
		return []byte("not an image"), nil
	}
	_, err = svc.GetOptimizedImage(context.Background(), "https://img.test/p.png", 100, 70)
	assert.Error(t, err)
}
