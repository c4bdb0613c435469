package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations: Redis for
// production, Noop for tests and cache-less deployments.
type Cache interface {
	// Get reads key into dest. found=false means cache miss and dest is
	// left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes all keys matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
