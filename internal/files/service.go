package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/filebridge/service/internal/storage"
)

// chatStore is the coordinator surface the service consumes.
type chatStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*Upload, error)
	Lookup(ctx context.Context, channelID, messageID string) (*Upload, error)
	Delete(ctx context.Context, channelID, messageID string) bool
	Status(ctx context.Context) ConnStatus
}

// index is the metadata key-value surface (get/put/delete by FileIdentifier).
type index interface {
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, rec *Record) error
	Delete(ctx context.Context, key string) error
}

// ModeBucket tags records whose payload lives in the object-storage bucket.
const ModeBucket = "bucket"

// Service ties the chat-backend coordinators, the metadata index, and the
// bucket together into the operations the HTTP layer exposes.
type Service struct {
	store  chatStore
	repo   index
	bucket storage.Storage // nil when no bucket is configured
}

// NewService creates a Service. bucket may be nil if object storage is not
// configured; bucket uploads then fail with a configuration error.
func NewService(store chatStore, repo index, bucket storage.Storage) *Service {
	return &Service{store: store, repo: repo, bucket: bucket}
}

// ErrNoBucket is returned when a bucket upload is requested without
// configured object storage.
var ErrNoBucket = errors.New("object storage not configured")

// Upload stores the payload and records its metadata. toBucket selects the
// object-storage bucket directly; otherwise the chat-backend failover chain
// runs and the winning backend's descriptor is persisted.
func (s *Service) Upload(ctx context.Context, filename, contentType string, data []byte, toBucket bool) (*Record, error) {
	if toBucket {
		return s.uploadToBucket(ctx, filename, contentType, data)
	}

	up, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:           uuid.NewString(),
		Filename:     up.Filename,
		Size:         up.Size,
		ContentType:  up.ContentType,
		Mode:         up.Mode,
		URL:          up.URL,
		ChannelID:    up.ChannelID,
		MessageID:    up.MessageID,
		AttachmentID: up.AttachmentID,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, rec.ID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) uploadToBucket(ctx context.Context, filename, contentType string, data []byte) (*Record, error) {
	if s.bucket == nil {
		return nil, ErrNoBucket
	}

	key := uuid.NewString() + path.Ext(filename)
	if err := s.bucket.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("bucket upload: %w", err)
	}

	rec := &Record{
		ID:          BucketID(key),
		Filename:    filename,
		Size:        int64(len(data)),
		ContentType: contentType,
		Mode:        ModeBucket,
		URL:         s.bucket.PublicURL(key),
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, rec.ID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Resolved pairs a metadata record with a currently fetchable URL.
type Resolved struct {
	Record *Record `json:"record"`
	URL    string  `json:"url"`
}

// Resolve turns an external identifier into a fetchable URL. Bucket-backed
// identifiers resolve to the bucket's public URL; index-only identifiers are
// re-fetched from the chat backends so the URL is fresh rather than a
// possibly expired link from upload time.
func (s *Service) Resolve(ctx context.Context, rawID string) (*Resolved, error) {
	id := ParseID(rawID)

	rec, err := s.repo.Get(ctx, id.Raw)
	if err != nil {
		return nil, err
	}

	if id.Kind == KindBucket {
		if s.bucket == nil {
			return nil, ErrNoBucket
		}
		return &Resolved{Record: rec, URL: s.bucket.PublicURL(id.Key)}, nil
	}

	up, err := s.store.Lookup(ctx, rec.ChannelID, rec.MessageID)
	if err != nil {
		return nil, err
	}
	return &Resolved{Record: rec, URL: up.URL}, nil
}

// PurgeResult reports which identifier was purged.
type PurgeResult struct {
	ID string `json:"id"`
}

// Purge removes a file's stored state by identifier. Bucket-backed: the
// bucket object is deleted first, and a bucket failure is logged but does
// not abort — the index row still goes, deliberately favoring "unreachable
// through this system" over "bytes reclaimed". Index-only identifiers never
// touch the chat backends here; deleting the index row is what makes the
// file unreachable.
func (s *Service) Purge(ctx context.Context, rawID string) (*PurgeResult, error) {
	id := ParseID(rawID)

	if id.Kind == KindBucket {
		if s.bucket == nil {
			log.Printf("bucket not configured, skipping object delete for %s", id.Raw)
		} else if err := s.bucket.Delete(ctx, id.Key); err != nil {
			log.Printf("bucket delete of %s failed: %v", id.Key, err)
		}
	}

	if err := s.repo.Delete(ctx, id.Raw); err != nil {
		return nil, err
	}
	return &PurgeResult{ID: id.Raw}, nil
}

// Remove is the full deletion flow behind the DELETE endpoint: for
// chat-backed records it first attempts a best-effort message delete, then
// purges. Returns ErrNotFound when no record exists for the identifier.
func (s *Service) Remove(ctx context.Context, rawID string) (*PurgeResult, error) {
	rec, err := s.repo.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if rec.MessageID != "" {
		if !s.store.Delete(ctx, rec.ChannelID, rec.MessageID) {
			log.Printf("chat delete of %s did not succeed on any backend", rawID)
		}
	}

	return s.Purge(ctx, rawID)
}

// Status reports the merged chat-backend health.
func (s *Service) Status(ctx context.Context) ConnStatus {
	return s.store.Status(ctx)
}
