// Package admin gates operator-only endpoints behind a static API key.
package admin

import (
	"log/slog"
	"net/http"

	dErrors "matricula/pkg/domain-errors"
	"matricula/pkg/platform/httputil"
	"matricula/pkg/platform/secrets"
)

// RequireAdminKey rejects requests whose X-Admin-Key header does not verify
// against the configured bcrypt hash. With an empty hash the admin surface is
// disabled outright.
func RequireAdminKey(keyHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keyHash == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "not found"))
				return
			}

			key := r.Header.Get("X-Admin-Key")
			if err := secrets.Verify(key, keyHash); err != nil {
				logger.WarnContext(r.Context(), "admin key mismatch",
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin key required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
