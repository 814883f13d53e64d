//go:build integration

package bucket_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	bucket "matricula/internal/ratelimit/store/bucket"
	"matricula/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	ctx   context.Context
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
}

func TestRedisBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.store = bucket.NewRedis(s.redis.Client)
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisBucketStoreSuite) TestAllowUpToLimit() {
	for i := 1; i <= 10; i++ {
		result, err := s.store.Allow(s.ctx, "203.0.113.9", 10, 5*time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed, "hit %d", i)
		s.Equal(10-i, result.Remaining)
	}

	result, err := s.store.Allow(s.ctx, "203.0.113.9", 10, 5*time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)
	s.GreaterOrEqual(result.RetryAfter, 1)
	s.LessOrEqual(result.RetryAfter, 300)
}

func (s *RedisBucketStoreSuite) TestWindowExpires() {
	for i := 0; i < 3; i++ {
		result, err := s.store.Allow(s.ctx, "203.0.113.9", 2, time.Second)
		s.Require().NoError(err)
		s.Equal(i < 2, result.Allowed)
	}

	time.Sleep(1100 * time.Millisecond)

	result, err := s.store.Allow(s.ctx, "203.0.113.9", 2, time.Second)
	s.Require().NoError(err)
	s.True(result.Allowed, "fresh window after expiry")
	s.Equal(1, result.Remaining)
}

func (s *RedisBucketStoreSuite) TestClientsAreIndependent() {
	for i := 0; i < 5; i++ {
		_, err := s.store.Allow(s.ctx, "203.0.113.9", 5, 5*time.Minute)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(s.ctx, "203.0.113.9", 5, 5*time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)

	result, err = s.store.Allow(s.ctx, "198.51.100.4", 5, 5*time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisBucketStoreSuite) TestCountAndReset() {
	count, err := s.store.Count(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.Zero(count, "absent key counts as zero")

	for i := 0; i < 4; i++ {
		_, err := s.store.Allow(s.ctx, "203.0.113.9", 10, 5*time.Minute)
		s.Require().NoError(err)
	}

	count, err = s.store.Count(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.Equal(4, count)

	s.Require().NoError(s.store.Reset(s.ctx, "203.0.113.9"))

	count, err = s.store.Count(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.Zero(count)
}
