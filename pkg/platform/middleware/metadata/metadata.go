// Package metadata derives best-effort client identity from request headers
// and carries it through the request context. The identifier is a network
// origin signal for rate limiting, not an authenticated identity.
package metadata

import (
	"context"
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests that carry neither a
// forwarded-for nor a real-IP header. All such clients rate-limit together.
const UnknownClient = "unknown"

type contextKeyClientID struct{}
type contextKeyUserAgent struct{}

// ClientMetadata extracts the client identifier and User-Agent from the
// request and adds them to the context. Apply early in the chain so the rate
// limiter sees them.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyClientID{}, ClientIDFromRequest(r))
		ctx = context.WithValue(ctx, contextKeyUserAgent{}, r.Header.Get("User-Agent"))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientID retrieves the client identifier from the context.
func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyClientID{}).(string); ok {
		return id
	}
	return UnknownClient
}

// GetUserAgent retrieves the User-Agent from the context.
func GetUserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(contextKeyUserAgent{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects a client identifier and User-Agent into a
// context. Useful for service tests that skip the HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientID, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientID{}, clientID)
	ctx = context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
	return ctx
}

// ClientIDFromRequest derives the rate-limit key for a request: the first
// comma-separated value of X-Forwarded-For when present, then X-Real-IP, then
// the shared "unknown" bucket.
func ClientIDFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if idx := strings.Index(xff, ","); idx != -1 {
			first = xff[:idx]
		}
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return UnknownClient
}
