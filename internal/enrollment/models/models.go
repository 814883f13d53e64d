// Package models defines the enrollment submission record and its raw input
// shape.
package models

import "time"

// RawSubmission is the untrusted form input as extracted by the transport:
// one raw value per named field plus the repeatable service options.
type RawSubmission struct {
	Fields         map[string]string
	ServiceOptions []string
}

// Submission is the fully validated, sanitized record handed to the store.
// Assembled once per accepted request and never mutated afterwards; the store
// owns its lifecycle from Insert on.
type Submission struct {
	ID             string
	Fields         map[string]string
	ServiceOptions []string
	ClientID       string
	SubmittedAt    time.Time
}

// Field returns the validated value for a field name.
func (s *Submission) Field(name string) string {
	return s.Fields[name]
}
