// Package storage defines the object-storage port used for result evidence
// uploads. The platform never inspects file bytes; it stores them and keeps
// the returned location.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectMetadata describes an object being stored.
type ObjectMetadata struct {
	ContentType string
	Size        int64
}

// StoredObject is what the storage collaborator reports back after a
// successful upload.
type StoredObject struct {
	URL  string
	Key  string
	Size int64
}

// ObjectStorage abstracts the attachment store (S3 in production, an
// in-memory fake in tests).
type ObjectStorage interface {
	// Put stores the object under key and returns its public location.
	Put(ctx context.Context, key string, reader io.Reader, meta ObjectMetadata) (*StoredObject, error)

	// Get retrieves a stored object.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a stored object.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)
}
