package interest

import (
	"context"
	"sync"
)

type edge struct {
	from, to string
}

// MemoryStore is an in-process Store used in dev mode and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	edges map[edge]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{edges: make(map[edge]struct{})}
}

func (s *MemoryStore) UpsertEdge(_ context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[edge{from, to}] = struct{}{}
	return nil
}

func (s *MemoryStore) HasEdge(_ context.Context, from, to string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edges[edge{from, to}]
	return ok, nil
}

// Len reports the number of stored edges. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}
