package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"matricula/internal/audit"
	enrollmodels "matricula/internal/enrollment/models"
	memstore "matricula/internal/enrollment/store/memory"
	"matricula/internal/validation"
	dErrors "matricula/pkg/domain-errors"
	"matricula/pkg/platform/middleware/metadata"
)

// validRaw returns a submission that passes every rule.
func validRaw() enrollmodels.RawSubmission {
	return enrollmodels.RawSubmission{
		Fields: map[string]string{
			"student_name":         "María Pérez",
			"father_name":          "José Pérez",
			"mother_name":          "Ana Gómez",
			"other_guardian":       "Luisa Gómez",
			"father_email":         "jose.perez@example.com",
			"mother_email":         "ana.gomez@example.com",
			"grade":                "1º",
			"address":              "Av. Bolívar, Edif. Norte, Apto 4",
			"municipio":            "Libertador",
			"sector":               "Centro",
			"urbanizacion":         "Los Rosales",
			"bloque":               "B-3",
			"father_phone":         "0414-5551234",
			"father_office_phone":  "0212-5554321",
			"mother_phone":         "0424-5556789",
			"mother_office_phone":  "0212-5559876",
			"other_guardian_phone": "0416-5550000",
			"responsible_id":       "V-12345678",
			"observaciones":        "Ninguna",
		},
		ServiceOptions: []string{"AM"},
	}
}

type IntakeServiceSuite struct {
	suite.Suite
	store *memstore.InMemoryStore
	sink  *audit.InMemorySink
	svc   *Service
	ctx   context.Context
}

func TestIntakeServiceSuite(t *testing.T) {
	suite.Run(t, new(IntakeServiceSuite))
}

// recordingPublisher delivers synchronously so tests can assert immediately.
type recordingPublisher struct {
	sink *audit.InMemorySink
}

func (p *recordingPublisher) Emit(ctx context.Context, event audit.Event) {
	_ = p.sink.Append(ctx, event)
}

func (s *IntakeServiceSuite) SetupTest() {
	s.store = memstore.New()
	s.sink = audit.NewInMemorySink()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.svc, err = New(
		s.store,
		WithLogger(logger),
		WithAuditPublisher(&recordingPublisher{sink: s.sink}),
		WithClock(func() time.Time {
			return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		}),
	)
	s.Require().NoError(err)

	s.ctx = metadata.WithClientMetadata(s.T().Context(), "203.0.113.9", "test")
}

func (s *IntakeServiceSuite) TestNewRequiresStore() {
	_, err := New(nil)
	s.Error(err)
	s.Contains(err.Error(), "store is required")
}

func (s *IntakeServiceSuite) TestSubmitValid() {
	submission, err := s.svc.Submit(s.ctx, validRaw())
	s.Require().NoError(err)

	s.NotEmpty(submission.ID)
	s.Equal("203.0.113.9", submission.ClientID)
	s.Equal([]string{"AM"}, submission.ServiceOptions)
	s.Equal("María Pérez", submission.Field("student_name"))

	// Every rule-table field is present and non-empty.
	for _, rule := range validation.Rules {
		s.NotEmpty(submission.Field(rule.Name), "field %s", rule.Name)
	}

	s.Require().Equal(1, s.store.Len())
	s.Equal(*submission, s.store.All()[0])

	events := s.sink.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionEnrollmentAccepted, events[0].Action)
	s.Equal(submission.ID, events[0].SubmissionID)
}

func (s *IntakeServiceSuite) TestSubmitSanitizesFields() {
	raw := validRaw()
	raw.Fields["student_name"] = "  María \t\n Pérez \x00 "
	raw.ServiceOptions = []string{" AM ", "AM", "PM"}

	submission, err := s.svc.Submit(s.ctx, raw)
	s.Require().NoError(err)
	s.Equal("María Pérez", submission.Field("student_name"))
	s.ElementsMatch([]string{"AM", "PM"}, submission.ServiceOptions)
}

func (s *IntakeServiceSuite) TestSubmitFailsFastOnFirstInvalidField() {
	raw := validRaw()
	// Two bad fields; mother_name comes first in rule order.
	raw.Fields["mother_name"] = ""
	raw.Fields["responsible_id"] = "!!"

	_, err := s.svc.Submit(s.ctx, raw)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	s.Contains(err.Error(), "Mother's name is required")
	s.NotContains(err.Error(), "Responsible ID")

	s.Zero(s.store.Len(), "no partial record may be persisted")

	events := s.sink.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionEnrollmentRejected, events[0].Action)
	s.Equal("mother_name", events[0].Field)
}

func (s *IntakeServiceSuite) TestSubmitMissingEmail() {
	raw := validRaw()
	delete(raw.Fields, "father_email")

	_, err := s.svc.Submit(s.ctx, raw)
	s.Require().Error(err)
	s.Contains(err.Error(), "Father's email is required")
	s.Zero(s.store.Len())
}

func (s *IntakeServiceSuite) TestSubmitInvalidServiceOptions() {
	raw := validRaw()
	raw.ServiceOptions = []string{"XX"}

	_, err := s.svc.Submit(s.ctx, raw)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	s.Contains(err.Error(), "select at least one valid service option")
	s.Zero(s.store.Len())
}

type failingStore struct {
	attempts int
}

func (f *failingStore) Insert(context.Context, enrollmodels.Submission) error {
	f.attempts++
	return errors.New("pq: connection refused")
}

func (s *IntakeServiceSuite) TestStoreFailureIsGenericAndNotRetried() {
	failing := &failingStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(failing, WithLogger(logger), WithAuditPublisher(&recordingPublisher{sink: s.sink}))
	s.Require().NoError(err)

	_, err = svc.Submit(s.ctx, validRaw())
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInternal))
	s.NotContains(err.Error(), "connection refused", "store detail must not leak")
	s.Equal(1, failing.attempts, "persistence is attempted exactly once")

	events := s.sink.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionStoreFailure, events[0].Action)
	s.Contains(events[0].Detail, "connection refused")
}
