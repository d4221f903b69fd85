// Package objectstore writes uploaded files to a public object bucket and maps
// between object keys and their public URLs.
package objectstore

import (
	"context"
	"errors"
	"io"
)

var (
	ErrEmptyKey      = errors.New("object key required")
	ErrForeignURL    = errors.New("url does not point into the configured bucket")
	ErrMissingBucket = errors.New("object bucket not configured")
)

// Store is the storage backend behind the upload adapter.
type Store interface {
	// Put writes body under key. body is read exactly once on the happy path.
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL recovers the object key from a URL produced by PublicURL.
	KeyFromURL(rawURL string) (string, error)
}
