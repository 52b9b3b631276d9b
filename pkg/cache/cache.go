// Package cache provides content-addressed caching for pipeline stages.
//
// The two expensive stages cache their output: graph building is keyed
// by the hash of the raw inventory, layout by the hash of the built
// graph plus the layout options. Backends range from a no-op NullCache
// through an on-disk FileCache for CLI usage to a shared RedisCache for
// server deployments.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached pipeline stages. Entries are content-addressed,
// so they never go stale; expiry keeps unused entries from piling up.
const (
	// TTLGraph is the lifetime of built-graph entries.
	TTLGraph = 24 * time.Hour

	// TTLLayout is the lifetime of laid-out-graph entries.
	TTLLayout = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
// Implementations treat a missing key as a miss, not an error.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl stores the entry without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Stats reports how many entries the backend holds and their total
	// size where the backend can tell.
	Stats(ctx context.Context) (Stats, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Stats describes the contents of a cache backend.
type Stats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}
