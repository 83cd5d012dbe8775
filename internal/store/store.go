package store

import (
	"context"
)

// Store defines the interface for the local key-value persistence layer.
// Values are opaque bytes; Records layers the task encoding on top.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// PutMany overwrites several keys as one unit: either every entry is
	// written or none is.
	PutMany(ctx context.Context, entries map[string][]byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}
