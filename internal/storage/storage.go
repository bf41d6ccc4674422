// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is the metadata returned by Stat.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage is the interface for uploading, removing and addressing objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Deleting a key that does
	// not exist must succeed.
	Delete(ctx context.Context, key string) error
	// PresignedURL returns a time-limited URL granting GET access to key.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Stat returns metadata for the object at key, or an error when the
	// object does not exist.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
