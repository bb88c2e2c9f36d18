// Package cache stores fetched API responses and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [MemoryCache]: an in-process LRU, for the HTTP server
//   - [RedisCache]: a shared Redis instance, for several servers or batch hosts
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that the CLI, the batch runner and the server
// agree on the cache layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default lifetimes per entry kind.
const (
	// TTLHTTP applies to MediaWiki API responses. Page views change daily.
	TTLHTTP = 24 * time.Hour

	// TTLArtifact applies to rendered documents, which depend only on
	// their inputs.
	TTLArtifact = 7 * 24 * time.Hour
)
