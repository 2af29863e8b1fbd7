package service

import (
	"context"
	"io"
	"time"

	"miniblog/internal/errors"
)

// ErrObjectNotFound is returned when a key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// ObjectAttributes describes a stored object.
type ObjectAttributes struct {
	ContentType string
	Size        int64
	ModTime     time.Time
}

// ObjectStorage stores uploaded media bytes.
type ObjectStorage interface {
	// Put writes the object under key.
	Put(ctx context.Context, key, contentType string, r io.Reader) error

	// Open returns a reader for the object under key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, *ObjectAttributes, error)

	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
