package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Stat and PresignedURL for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Key          string    `json:"fileId"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"mimeType"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"createdAt"`
}

// Storage is the blob store port. Keys are opaque handles chosen by the caller.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	// PresignedURL returns a time-limited GET URL. With download set the
	// response carries an attachment Content-Disposition.
	PresignedURL(ctx context.Context, key string, download bool) (string, error)
}
