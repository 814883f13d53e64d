// Package store defines the persistence boundary for enrollment submissions.
// The gateway treats the store as capability-agnostic: insert one record,
// report success or failure.
package store

import (
	"context"

	"matricula/internal/enrollment/models"
)

// Store persists validated submissions. Implementations must treat Insert as
// a single attempt — the gateway never retries.
type Store interface {
	Insert(ctx context.Context, submission models.Submission) error
}
