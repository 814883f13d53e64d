// Package admin exposes operator endpoints for inspecting and resetting
// rate-limit counters. Gated by the admin key middleware; never reachable by
// submitters.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"matricula/internal/platform/middleware"
	dErrors "matricula/pkg/domain-errors"
	"matricula/pkg/platform/httputil"
	adminmw "matricula/pkg/platform/middleware/admin"
)

// Limiter is the slice of the rate-limit service the admin surface needs.
type Limiter interface {
	Count(ctx context.Context, clientID string) (int, error)
	Reset(ctx context.Context, clientID string) error
}

// Handler serves the operator endpoints.
type Handler struct {
	limiter Limiter
	logger  *slog.Logger
	keyHash string
}

// New creates the admin handler. keyHash is the bcrypt hash of the admin key.
func New(limiter Limiter, logger *slog.Logger, keyHash string) *Handler {
	return &Handler{limiter: limiter, logger: logger, keyHash: keyHash}
}

// Register mounts the admin routes with the key gate applied.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/ratelimit", func(r chi.Router) {
		r.Use(adminmw.RequireAdminKey(h.keyHash, h.logger))
		r.Get("/{clientID}", h.handleCount)
		r.Delete("/{clientID}", h.handleReset)
	})
}

type countResponse struct {
	ClientID string `json:"client_id"`
	Count    int    `json:"count"`
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := chi.URLParam(r, "clientID")

	count, err := h.limiter.Count(ctx, clientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read rate limit counter",
			"request_id", middleware.GetRequestID(ctx),
			"client_id", clientID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to read counter"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, countResponse{ClientID: clientID, Count: count})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := chi.URLParam(r, "clientID")

	if err := h.limiter.Reset(ctx, clientID); err != nil {
		h.logger.ErrorContext(ctx, "failed to reset rate limit counter",
			"request_id", middleware.GetRequestID(ctx),
			"client_id", clientID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to reset counter"))
		return
	}

	h.logger.InfoContext(ctx, "rate limit counter reset",
		"request_id", middleware.GetRequestID(ctx),
		"client_id", clientID,
	)
	httputil.WriteSuccess(w, "counter reset")
}
