package service

import (
	"context"
	"io"
)

// FileStorage defines the interface for storing and deleting uploaded files.
// Image deletion relies on it: removing an Image entity must remove the
// backing file it references.
type FileStorage interface {
	// Store writes the content under the given key and returns the public
	// path the file is served from.
	Store(ctx context.Context, key string, contentType string, content io.Reader) (string, error)

	// Delete removes the file referenced by a stored path. Deleting a path
	// that no longer exists is not an error.
	Delete(ctx context.Context, path string) error
}
