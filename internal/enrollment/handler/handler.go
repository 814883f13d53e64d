// Package handler is the thin HTTP layer for enrollment intake. It parses
// the multipart form and delegates to the service; admission runs in
// middleware strictly before any parsing.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"matricula/internal/enrollment/models"
	"matricula/internal/platform/metrics"
	platformmw "matricula/internal/platform/middleware"
	"matricula/internal/validation"
	dErrors "matricula/pkg/domain-errors"
	"matricula/pkg/platform/httputil"
	"matricula/pkg/platform/middleware/metadata"
)

// maxFormMemory bounds the in-memory portion of multipart parsing. The whole
// form is a handful of short text fields.
const maxFormMemory = 1 << 20

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the intake operation the handler delegates to.
type Service interface {
	Submit(ctx context.Context, raw models.RawSubmission) (*models.Submission, error)
}

// Handler handles the enrollment endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates an enrollment Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: m}
}

// Register mounts the intake route with its middleware chain. admission is
// the rate-limit middleware; it must reject over-limit clients before the
// body is ever parsed.
func (h *Handler) Register(r chi.Router, admission func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(platformmw.Recovery(h.logger))
		r.Use(platformmw.RequestID)
		r.Use(platformmw.Logger(h.logger))
		r.Use(metadata.ClientMetadata)
		if h.metrics != nil {
			r.Use(platformmw.Latency(h.metrics))
		}
		r.Use(platformmw.Timeout(30 * time.Second))
		r.Use(admission)
		r.Post("/api/enrollments", h.handleSubmit)
	})
}

// handleSubmit accepts one multipart enrollment form.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.logger.WarnContext(ctx, "invalid enrollment payload",
			"request_id", platformmw.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form payload"))
		return
	}

	raw := models.RawSubmission{
		Fields:         make(map[string]string, len(validation.Rules)),
		ServiceOptions: r.PostForm[validation.ServiceOptionsField],
	}
	for _, rule := range validation.Rules {
		raw.Fields[rule.Name] = r.PostFormValue(rule.Name)
	}

	if _, err := h.service.Submit(ctx, raw); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, "enrollment received")
}
