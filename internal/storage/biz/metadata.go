package biz

import (
	"context"
	"time"

	"github.com/tierstore/tierstore/internal/storage/types"
)

// ObjectMeta is the metadata record kept for every stored object.
// ID, SizeBytes and CreatedAt are immutable after creation; Tier is mutated
// only by the tiering engine or an override, LastAccessed by downloads and
// the admin backdate operation.
type ObjectMeta struct {
	ID           string
	FileName     string
	SizeBytes    int64
	ContentType  string
	ETag         string
	Tier         types.Tier
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Validate reports whether the record conforms to the expected shape.
// LastAccessed before CreatedAt is legal: the admin backdate operation
// produces exactly that.
func (m *ObjectMeta) Validate() error {
	if m == nil || m.ID == "" {
		return ErrCorruptRecord
	}
	if !m.Tier.Valid() {
		return ErrCorruptRecord
	}
	if m.CreatedAt.IsZero() {
		return ErrCorruptRecord
	}
	return nil
}

// Clone returns a deep copy of the record
func (m *ObjectMeta) Clone() *ObjectMeta {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// MetadataRepo is the registry of object metadata records. All mutations are
// visible to subsequent Gets immediately; every operation on an unknown id
// returns ErrObjectNotFound.
type MetadataRepo interface {
	Create(ctx context.Context, meta *ObjectMeta) error
	Get(ctx context.Context, id string) (*ObjectMeta, error)
	Delete(ctx context.Context, id string) error

	// ForEach visits a stable snapshot of all records, so records created or
	// deleted concurrently are either fully included or fully excluded.
	// A non-nil error from the visitor aborts the iteration.
	ForEach(ctx context.Context, visit func(meta *ObjectMeta) error) error

	// Touch sets LastAccessed to now
	Touch(ctx context.Context, id string) error

	// SetLastAccessed overwrites LastAccessed with an arbitrary timestamp,
	// including one before CreatedAt. Test and admin support only.
	SetLastAccessed(ctx context.Context, id string, t time.Time) error

	UpdateTier(ctx context.Context, id string, tier types.Tier) error
}

// BlobStore holds object content keyed by object id. No policy logic lives
// here; create, read and delete only.
type BlobStore interface {
	Put(ctx context.Context, id string, data []byte, contentType string) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}
