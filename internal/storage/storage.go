// Package storage defines the interface for object storage operations.
// The MinIO implementation works with any S3-compatible provider (MinIO,
// Cloudflare R2, AWS S3); swap providers by changing endpoint and credentials.
package storage

import (
	"context"
	"io"
)

// Storage is the bucket-store surface the file service consumes.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Callers treat a failed
	// delete as non-fatal; the object merely outlives its metadata.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
