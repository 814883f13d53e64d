// Package audit records structured intake events for operator visibility.
// Events are append-only and flow through a buffered worker so the request
// path never blocks on the sink.
package audit

import "time"

// Action identifies what happened.
type Action string

const (
	ActionEnrollmentAccepted Action = "enrollment_accepted"
	ActionEnrollmentRejected Action = "enrollment_rejected"
	ActionRateLimitExceeded  Action = "rate_limit_exceeded"
	ActionStoreFailure       Action = "store_failure"
)

// Event is one auditable occurrence. ClientID is a network-origin signal, not
// an authenticated identity.
type Event struct {
	ID           string `json:"id"`
	Action       Action `json:"action"`
	ClientID     string `json:"client_id,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
	// Field names the first failing field for rejections.
	Field     string    `json:"field,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
