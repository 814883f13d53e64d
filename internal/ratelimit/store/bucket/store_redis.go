package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"matricula/internal/ratelimit/models"
)

const redisKeyPrefix = "matricula:ratelimit:"

// RedisBucketStore implements ports.BucketStore on redis, for deployments
// with more than one replica. INCR plus a first-hit expiry gives the same
// fixed-window semantics as the in-memory store; atomicity comes from redis
// itself. Rejected hits still bump the counter, which only deepens the
// rejection and never admits extra requests.
type RedisBucketStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedis creates a bucket store backed by the given redis client.
func NewRedis(client redis.Cmdable) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

// Allow records a hit for key and reports the admission decision.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	k := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis rate limit for %q: %w", key, err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		ttl = window
	}
	now := s.now()
	resetAt := now.Add(ttl)

	count := int(incr.Val())
	if count > limit {
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter(now, resetAt),
		}, nil
	}

	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count,
		ResetAt:   resetAt,
	}, nil
}

// Count returns the hit count in the key's current window.
func (s *RedisBucketStore) Count(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, redisKeyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis rate limit count for %q: %w", key, err)
	}
	return count, nil
}

// Reset clears the counter for key.
func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis rate limit reset for %q: %w", key, err)
	}
	return nil
}
