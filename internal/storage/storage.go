package storage

import (
	"context"
	"io"
)

// ObjectStore persists uploaded file contents under a key and returns the
// location recorded with the file's metadata.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
