// Package files manages stored file records: upload failover across the
// chat backends, lookup, deletion, the metadata index, and purging.
package files

import "strings"

// BucketPrefix is the reserved marker on identifiers whose payload lives in
// the object-storage bucket. The prefix is the sole discriminator of storage
// location; no other field may be used to infer it.
const BucketPrefix = "r2:"

// Kind says where an identifier's payload lives.
type Kind int

const (
	// KindIndex identifies records held only in the metadata index; their
	// payload lives on the chat platform, addressed by channel and message
	// ids stored in the record.
	KindIndex Kind = iota
	// KindBucket identifies objects held in the storage bucket.
	KindBucket
)

// ID is a parsed FileIdentifier. Raw is the full original identifier (the
// metadata key); Key is the bucket object key for KindBucket, empty otherwise.
type ID struct {
	Raw  string
	Kind Kind
	Key  string
}

// ParseID splits an identifier into its tagged variant. Parsing happens here
// and nowhere else.
func ParseID(raw string) ID {
	if key, ok := strings.CutPrefix(raw, BucketPrefix); ok && key != "" {
		return ID{Raw: raw, Kind: KindBucket, Key: key}
	}
	return ID{Raw: raw, Kind: KindIndex}
}

// BucketID builds the external identifier for a bucket object key.
func BucketID(key string) string {
	return BucketPrefix + key
}
