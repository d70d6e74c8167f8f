package port

import (
	"context"
	"time"
)

// Cache is the key-value cache contract used by read-through repositories.
// Values are plain strings; serialization is the caller's concern.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value at key, or ErrMiss when the key is absent.
	// Other errors are transport or server failures.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many were actually removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals a cache miss, distinct from a transport error.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
