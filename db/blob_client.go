package db

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Get when the key does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// BlobClient defines the storage operations the forecaster needs from a
// blob container.
type BlobClient interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	// List returns the keys starting with prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
