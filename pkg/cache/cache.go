// Package cache provides byte-oriented caching for fetched assets and
// rendered cards.
//
// Three implementations exist: FileCache for CLI usage, RedisCache for the
// HTTP service, and NullCache to disable caching. Keys are free-form
// strings; use Key to build collision-safe keys from render inputs and
// Namespace-style prefixes ("avatar:", "render:") to separate concerns.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a per-entry TTL.
// A TTL of 0 means the entry never expires.
type Cache interface {
	// Get returns (data, true, nil) on a hit and (nil, false, nil) on a
	// miss. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}
