// Package conversation holds the ordered transcript of turns for one
// session. The store is exclusively owned and mutated by the session
// controller; everything else reads snapshots.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"coddify/pkg/tutortypes"
)

// Store holds the ordered turn sequence. Insertion order is chronological.
// If a greeting turn exists it is always index 0 with role model.
type Store struct {
	mu    sync.RWMutex
	turns []tutortypes.Turn
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{}
}

// NewTurn builds a turn with a fresh ID and timestamp.
func NewTurn(role tutortypes.Role, content string) tutortypes.Turn {
	return tutortypes.Turn{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Append adds turns to the end of the transcript.
func (s *Store) Append(turns ...tutortypes.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
}

// UpdateLast replaces the content of the last turn if its role matches.
// It is a no-op, not an error, when the store is empty or the last turn has
// a different role; timer callbacks racing a reset rely on that.
func (s *Store) UpdateLast(role tutortypes.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.turns) == 0 {
		return
	}
	last := &s.turns[len(s.turns)-1]
	if last.Role != role {
		return
	}
	last.Content = content
}

// Reset clears all turns. Invoked when onboarding restarts.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Last returns a copy of the last turn and whether one exists.
func (s *Store) Last() (tutortypes.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return tutortypes.Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// Snapshot returns a read-only copy of the full transcript for display.
func (s *Store) Snapshot() []tutortypes.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tutortypes.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
