// Package kv provides the persistent key-value backend for the REDUX content
// stores. All implementations must be thread-safe.
package kv

import "context"

// Store defines the interface for key-value backends. Values are opaque byte
// slices; both content stores serialize their records as JSON before writing.
type Store interface {
	// Get retrieves a value. Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value, overwriting any existing one.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys starting with the given prefix, in no particular
	// order. An empty prefix returns every key.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Error represents an error type for store operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the key does not exist.
	ErrNotFound Error = "key not found"

	// ErrClosed indicates the store has been closed.
	ErrClosed Error = "store closed"
)
