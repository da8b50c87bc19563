package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no entry exists.
var ErrNotFound = errors.New("cache entry not found")

// Store persists cache artifacts, one per (name, key).
type Store interface {
	// Load returns the artifact, or ErrNotFound.
	Load(ctx context.Context, name, key string) ([]byte, error)
	// Save creates or replaces the artifact.
	Save(ctx context.Context, name, key string, data []byte) error
}
