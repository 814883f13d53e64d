// Package service implements the admission policy: one fixed-window counter
// per client identifier, consulted before any request parsing or validation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"matricula/internal/audit"
	"matricula/internal/platform/config"
	"matricula/internal/platform/metrics"
	"matricula/internal/ratelimit/models"
	"matricula/internal/ratelimit/ports"
	"matricula/pkg/platform/middleware/metadata"
)

// BucketStore is re-exported so callers can wire stores without importing
// ports directly.
type BucketStore = ports.BucketStore

// AuditPublisher receives rate-limit audit events. Emit must not block.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service decides whether a client's request is admitted.
type Service struct {
	buckets BucketStore
	cfg     config.RateLimit
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables rejection counting.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditPublisher emits an audit event for every rejection.
func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) {
		s.audit = pub
	}
}

// New builds an admission service over the given bucket store.
func New(buckets BucketStore, cfg config.RateLimit, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return nil, errors.New("rate limit max and window must be positive")
	}

	svc := &Service{
		buckets: buckets,
		cfg:     cfg,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Admit records a hit for clientID and reports the decision. An empty
// identifier lands in the shared "unknown" bucket.
func (s *Service) Admit(ctx context.Context, clientID string) (*models.RateLimitResult, error) {
	if clientID == "" {
		clientID = metadata.UnknownClient
	}

	result, err := s.buckets.Allow(ctx, clientID, s.cfg.Max, s.cfg.Window)
	if err != nil {
		return nil, err
	}

	if !result.Allowed {
		if s.metrics != nil {
			s.metrics.RateLimited.Inc()
		}
		if s.audit != nil {
			s.audit.Emit(ctx, audit.Event{
				Action:   audit.ActionRateLimitExceeded,
				ClientID: clientID,
				Detail:   "submission window exhausted",
			})
		}
		s.logger.WarnContext(ctx, "request rate limited",
			"client_id", clientID,
			"retry_after", result.RetryAfter,
		)
	}

	return result, nil
}

// Count reports the hit count in the client's current window.
func (s *Service) Count(ctx context.Context, clientID string) (int, error) {
	return s.buckets.Count(ctx, clientID)
}

// Reset clears the client's counter. Operator tooling only.
func (s *Service) Reset(ctx context.Context, clientID string) error {
	return s.buckets.Reset(ctx, clientID)
}
