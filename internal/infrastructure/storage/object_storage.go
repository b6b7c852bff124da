package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when a key has no stored object behind it.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object for listing purposes.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the blob store contract. The production implementation
// is MinIO; tests use an in-memory fake.
type ObjectStorage interface {
	// Put stores an object under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the whole object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// GetRange opens bytes [start, end] (inclusive) of the object.
	GetRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error)

	// Stat returns the object size, or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (int64, error)

	// Remove deletes an object. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// List returns every object under the given prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
