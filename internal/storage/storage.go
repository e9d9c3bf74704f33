// Package storage contains the cloud object storage abstraction used to
// persist documents. Backends wrap the respective SDK directly: no retry or
// backoff logic is added beyond what the SDK performs internally.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotConfigured is returned before any network call when the backend's
	// credentials are missing or invalid. Cloud features are unavailable but
	// the rest of the application keeps working.
	ErrNotConfigured = errors.New("cloud storage is not configured")
	// ErrNotFound is returned when the requested object does not exist,
	// distinguished from connection or service failures.
	ErrNotFound = errors.New("object not found")
	// ErrPresignNotSupported is returned by backends that cannot mint
	// pre-signed URLs with their configured credential type.
	ErrPresignNotSupported = errors.New("presigned urls are not supported by this backend")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; -1 lets the backend
// buffer/chunk as supported. ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object storage client interface. Methods use context and
// streaming readers; no local disk is used. Implementations must map the
// backend's missing-object error to ErrNotFound.
type Storage interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a reader alongside its info. The
	// reader is independent of the passed context and stays valid after Get
	// returns.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// PresignGet returns a time-limited download URL for the object, or
	// ErrPresignNotSupported when the backend cannot issue one.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// List returns info for every object in the container/bucket. Listings
	// are a point-in-time snapshot; the remote store stays authoritative.
	List(ctx context.Context) ([]ObjectInfo, error)
}
