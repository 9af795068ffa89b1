package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in-process. Suitable for a single-node
// deployment; the orchestrator serializes access per user.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	// Copy so the caller can mutate freely before Put.
	cp := sess
	if sess.Intake != nil {
		in := *sess.Intake
		cp.Intake = &in
	}
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	if sess.Intake != nil {
		in := *sess.Intake
		cp.Intake = &in
	}
	s.sessions[sess.UserID] = cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
