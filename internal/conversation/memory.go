package conversation

import (
	"context"
	"sync"
)

// MemoryStore keeps histories in process memory; they are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	maxTurns int
	turns    map[int64][]Turn
}

func NewMemoryStore(maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &MemoryStore{
		maxTurns: maxTurns,
		turns:    make(map[int64][]Turn),
	}
}

func (s *MemoryStore) Append(ctx context.Context, userID int64, turns ...Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.turns[userID], turns...)
	trimmed := trim(history, s.maxTurns)
	// Copy so the backing array does not keep growing with dropped turns.
	s.turns[userID] = append([]Turn(nil), trimmed...)
	return nil
}

func (s *MemoryStore) History(ctx context.Context, userID int64) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Turn(nil), s.turns[userID]...), nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, userID)
	return nil
}
