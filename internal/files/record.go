package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is the metadata kept per stored file. Its existence in the index is
// authoritative for whether the file is "present" to the rest of the system,
// even when the underlying blob outlives or predeceases it.
type Record struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	Mode         string    `json:"mode"`
	URL          string    `json:"url,omitempty"`
	ChannelID    string    `json:"channelId,omitempty"`
	MessageID    string    `json:"messageId,omitempty"`
	AttachmentID string    `json:"attachmentId,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// ErrNotFound is returned when no record exists for an identifier.
var ErrNotFound = errors.New("file record not found")

// Repository is the key-value metadata index, keyed by the full external
// FileIdentifier. Values are stored as jsonb so the record shape can grow
// without migrations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Put stores or replaces the record under key.
func (r *Repository) Put(ctx context.Context, key string, rec *Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO file_records (id, record)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

// Get fetches the record stored under key.
func (r *Repository) Get(ctx context.Context, key string) (*Record, error) {
	var value []byte
	err := r.db.QueryRow(ctx,
		`SELECT record FROM file_records WHERE id = $1`,
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", key, err)
	}

	rec := &Record{}
	if err := json.Unmarshal(value, rec); err != nil {
		return nil, fmt.Errorf("decode record %q: %w", key, err)
	}
	return rec, nil
}

// Delete removes the record under key. Deleting an absent key is not an
// error; the index delete is idempotent.
func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM file_records WHERE id = $1`, key)
	if err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}
