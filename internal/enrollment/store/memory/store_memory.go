// Package memory holds submissions in process. Development and tests; data
// does not survive a restart.
package memory

import (
	"context"
	"sync"

	"matricula/internal/enrollment/models"
)

// InMemoryStore implements store.Store with a mutex-guarded slice.
type InMemoryStore struct {
	mu          sync.RWMutex
	submissions []models.Submission
}

// New creates an empty in-memory store.
func New() *InMemoryStore {
	return &InMemoryStore{}
}

// Insert appends the submission.
func (s *InMemoryStore) Insert(_ context.Context, submission models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, submission)
	return nil
}

// All returns a copy of every stored submission.
func (s *InMemoryStore) All() []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// Len reports how many submissions are stored.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}
