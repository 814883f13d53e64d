// Package bucket implements fixed-window hit counters keyed by client
// identifier.
package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"matricula/internal/ratelimit/models"
)

// InMemoryBucketStore implements ports.BucketStore with an in-process map.
// Single-instance deployments only; use the redis store when running more
// than one replica. Fixed-window counting means bursts at window boundaries
// can momentarily exceed the nominal rate — an accepted approximation.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// entry is one client's window. While now < expiresAt the count only grows;
// at or past expiresAt the entry is stale and gets overwritten on next access.
type entry struct {
	count     int
	expiresAt time.Time
}

// Option configures an InMemoryBucketStore.
type Option func(*InMemoryBucketStore)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryBucketStore) {
		s.now = now
	}
}

// New creates an empty in-memory bucket store.
func New(opts ...Option) *InMemoryBucketStore {
	s := &InMemoryBucketStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records a hit for key and reports the admission decision.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	e, ok := s.entries[key]
	if !ok || !e.expiresAt.After(now) {
		// First request, or the previous window lapsed: start a fresh one.
		e = &entry{count: 1, expiresAt: now.Add(window)}
		s.entries[key] = e
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetAt:   e.expiresAt,
		}, nil
	}

	if e.count >= limit {
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    e.expiresAt,
			RetryAfter: retryAfter(now, e.expiresAt),
		}, nil
	}

	e.count++
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - e.count,
		ResetAt:   e.expiresAt,
	}, nil
}

// Count returns the hit count in the key's current window.
func (s *InMemoryBucketStore) Count(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !e.expiresAt.After(s.now()) {
		return 0, nil
	}
	return e.count, nil
}

// Reset clears the counter for key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep removes expired entries and returns how many were dropped. Entries
// are otherwise only superseded lazily, so under heavy identifier churn the
// map grows without bound unless something sweeps it.
func (s *InMemoryBucketStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps at the given interval until ctx is done.
func (s *InMemoryBucketStore) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len reports the number of tracked entries, expired ones included.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func retryAfter(now, resetAt time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
