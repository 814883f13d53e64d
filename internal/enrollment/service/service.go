// Package service orchestrates enrollment intake: every field runs through
// the validator in rule order, the record is assembled once, and persistence
// is attempted exactly once. Validation fails fast — the first bad field
// aborts the request and later fields are never looked at.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"matricula/internal/audit"
	"matricula/internal/enrollment/models"
	"matricula/internal/enrollment/store"
	"matricula/internal/platform/metrics"
	"matricula/internal/platform/middleware"
	"matricula/internal/validation"
	dErrors "matricula/pkg/domain-errors"
	"matricula/pkg/platform/middleware/metadata"
)

// AuditPublisher is the slice of the audit pipeline the service uses.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service validates raw submissions and hands clean records to the store.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables intake counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditPublisher enables audit events.
func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) {
		s.audit = pub
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New builds the intake service over the given store.
func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}

	svc := &Service{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit validates every field of raw in rule order, assembles the record,
// and persists it. Returns the stored submission, a bad_request error naming
// the first failing field, or a generic internal error when the store fails.
func (s *Service) Submit(ctx context.Context, raw models.RawSubmission) (*models.Submission, error) {
	fields := make(map[string]string, len(validation.Rules))

	for _, rule := range validation.Rules {
		value, err := validation.Validate(rule, raw.Fields[rule.Name])
		if err != nil {
			s.reject(ctx, rule.Name, err)
			return nil, err
		}
		fields[rule.Name] = value
	}

	options, err := validation.ValidateServiceOptions(raw.ServiceOptions)
	if err != nil {
		s.reject(ctx, validation.ServiceOptionsField, err)
		return nil, err
	}

	submission := models.Submission{
		ID:             uuid.NewString(),
		Fields:         fields,
		ServiceOptions: options,
		ClientID:       metadata.GetClientID(ctx),
		SubmittedAt:    s.now().UTC(),
	}

	if err := s.store.Insert(ctx, submission); err != nil {
		// The caller sees a generic failure; the detail is for operators.
		s.logger.ErrorContext(ctx, "failed to store enrollment",
			"request_id", middleware.GetRequestID(ctx),
			"submission_id", submission.ID,
			"error", err.Error(),
		)
		if s.metrics != nil {
			s.metrics.StoreFailures.Inc()
		}
		s.emit(ctx, audit.Event{
			Action:       audit.ActionStoreFailure,
			SubmissionID: submission.ID,
			Detail:       err.Error(),
		})
		return nil, dErrors.New(dErrors.CodeInternal, "failed to store enrollment")
	}

	s.logger.InfoContext(ctx, "enrollment accepted",
		"request_id", middleware.GetRequestID(ctx),
		"submission_id", submission.ID,
	)
	if s.metrics != nil {
		s.metrics.SubmissionsAccepted.Inc()
	}
	s.emit(ctx, audit.Event{
		Action:       audit.ActionEnrollmentAccepted,
		SubmissionID: submission.ID,
	})

	return &submission, nil
}

func (s *Service) reject(ctx context.Context, field string, err error) {
	s.logger.InfoContext(ctx, "enrollment rejected",
		"request_id", middleware.GetRequestID(ctx),
		"field", field,
		"reason", err.Error(),
	)
	if s.metrics != nil {
		s.metrics.SubmissionsRejected.WithLabelValues(field).Inc()
	}
	s.emit(ctx, audit.Event{
		Action: audit.ActionEnrollmentRejected,
		Field:  field,
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.ClientID = metadata.GetClientID(ctx)
	event.RequestID = middleware.GetRequestID(ctx)
	s.audit.Emit(ctx, event)
}
