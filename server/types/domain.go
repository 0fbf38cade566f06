package types

import "context"

// ContentTypeJPEG is the fixed output content type for generated
// renditions.
const ContentTypeJPEG = "image/jpeg"

// Attribute keys attached to derivative blobs at write time for
// provenance.
const (
	AttrContentID = "content_id"
	AttrBaseKey   = "base_key"
)

// Blob is a stored object: opaque payload plus serving metadata.
// Blobs are immutable once written; they are only created or replaced
// wholesale, never updated in place.
type Blob struct {
	Data        []byte
	ContentType string
	Attributes  map[string]string
}

// ObjectStore reads and writes opaque blobs by storage key.
type ObjectStore interface {
	// Get returns the blob stored under key. A missing key fails with
	// ErrNotFound; transport faults fail with ErrUnavailable, so
	// callers can tell a cache miss from an outage.
	Get(ctx context.Context, key string) (*Blob, error)

	// Put stores the blob under key, overwriting any previous value.
	// The write is a single atomic operation: a partially written blob
	// is never observable.
	Put(ctx context.Context, key string, blob *Blob) error
}

// MetadataLookup resolves a content identifier to the storage key of
// its canonical full-resolution asset.
type MetadataLookup interface {
	// ResolveBaseKey fails with ErrNotFound for an unknown content id
	// and ErrUnavailable on transient faults.
	ResolveBaseKey(ctx context.Context, contentID string) (string, error)
}

// Generator produces a derivative rendition from source bytes. It is a
// pure CPU transformation and must be safe for concurrent use.
type Generator interface {
	Generate(src []byte, width int) ([]byte, error)
}
