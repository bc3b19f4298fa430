// Package blob stores uploaded assets in an S3-compatible object store and
// hands back public URLs that can be persisted on documents.
package blob

import "context"

// Store is the object storage surface the services depend on. Implementations
// return the public URL of a stored object and resolve previously returned
// URLs back to object content.
type Store interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
	Delete(ctx context.Context, url string) error
}
