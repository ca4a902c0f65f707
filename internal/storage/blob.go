package storage

import (
	"context"
	"errors"
	"io"

	"github.com/ateeq/quizforge/internal/model"
)

// Sentinel errors for blob operations.
var (
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrInvalidPath   = errors.New("invalid object path")
)

// BlobStore stores media objects in named buckets. It never decides whether an
// object is still in use; callers gate Remove through the reference counter.
type BlobStore interface {
	// Put stores r under a fresh path derived from name and returns the
	// stored path with its public URL.
	Put(ctx context.Context, bucket, name string, r io.Reader) (model.Media, error)
	// Remove deletes an object. Removing a missing object succeeds.
	Remove(ctx context.Context, bucket, path string) error
	// List returns every object currently in the bucket.
	List(ctx context.Context, bucket string) ([]model.Media, error)
}
