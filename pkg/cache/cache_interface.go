package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract used by the token denylist.
// Implementations: Redis (internal/infrastructure/cache).
type Cache interface {
	// Get unmarshals the value stored under key into dest.
	// found is false on a miss, in which case dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores value under key for ttl. A non-positive ttl is a no-op.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error
}
