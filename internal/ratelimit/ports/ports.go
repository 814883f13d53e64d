// Package ports defines the interfaces the rate-limit service depends on.
package ports

import (
	"context"
	"time"

	"matricula/internal/ratelimit/models"
)

// BucketStore tracks fixed-window hit counters per client identifier.
// Implementations must make the read-check-increment sequence atomic per key:
// two concurrent requests at the limit boundary must not both be admitted, and
// two concurrent first requests must not initialize separate entries.
type BucketStore interface {
	// Allow records a hit for key and reports whether it fits inside the
	// current window of the given size.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)

	// Count returns the hit count in the key's current window. Expired
	// windows count as zero.
	Count(ctx context.Context, key string) (int, error)

	// Reset clears the counter for key.
	Reset(ctx context.Context, key string) error
}
