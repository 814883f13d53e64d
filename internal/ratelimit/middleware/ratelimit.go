// Package middleware enforces admission before any request parsing runs.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"matricula/internal/ratelimit/models"
	dErrors "matricula/pkg/domain-errors"
	"matricula/pkg/platform/httputil"
	"matricula/pkg/platform/middleware/metadata"
)

// Limiter is the admission decision the middleware consults.
type Limiter interface {
	Admit(ctx context.Context, clientID string) (*models.RateLimitResult, error)
}

// RateLimit rejects over-limit clients with 429 before the handler sees the
// request. A limiter failure fails open: an unavailable redis must not take
// enrollment intake down with it.
func RateLimit(limiter Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := metadata.GetClientID(ctx)

			result, err := limiter.Admit(ctx, clientID)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed",
					"client_id", clientID,
					"error", err.Error(),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited,
					"too many submissions from this address, please try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
