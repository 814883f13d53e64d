// Package models defines the rate limiter's result types.
package models

import "time"

// RateLimitResult reports one admission decision.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the client's current window expires.
	ResetAt time.Time
	// RetryAfter is whole seconds until ResetAt, for the Retry-After header.
	// Zero when the request was allowed.
	RetryAfter int
}
