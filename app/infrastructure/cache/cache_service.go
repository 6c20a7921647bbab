package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheService defines the interface for cache operations
type CacheService interface {
	// Set stores a string value in cache with an expiration time
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Get retrieves a string value from cache; ErrCacheMiss when absent
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// WithLock runs fn under a mutual-exclusion lock scoped to name.
	// The redis implementation uses a redsync distributed mutex, so the
	// guarantee holds across processes.
	WithLock(ctx context.Context, name string, fn func() error) error

	// Close closes the cache connection
	Close() error

	// HealthCheck verifies cache connectivity
	HealthCheck(ctx context.Context) error
}
