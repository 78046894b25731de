// Package cache stores rendered artifacts keyed by everything that produced
// them.
//
// A rendered frame is a pure function of the configuration, viewport, format
// and simulation time, so hosts can reuse earlier output instead of
// re-simulating. This is a render cache only; no simulation state is ever
// persisted.
//
// Backends:
//   - [FileCache]: sharded JSON files under a directory (CLI default)
//   - [RedisCache]: a shared redis instance
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
