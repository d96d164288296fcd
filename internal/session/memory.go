package session

import (
	"context"
	"sync"
	"time"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// memoryStore implements Store with an in-process map. Suitable for
// single-instance deployments; a janitor goroutine reclaims sessions whose
// UpdatedAt is older than the TTL so inactive sessions do not leak.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

func newMemoryStore(ttl, sweep time.Duration) *memoryStore {
	s := &memoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if sweep > 0 {
		go s.janitor(sweep)
	}
	return s
}

func (s *memoryStore) Create(ctx context.Context, data *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if data.StartedAt.IsZero() {
		data.StartedAt = now
	}
	data.UpdatedAt = now
	data.Version = 1

	s.sessions[data.ID] = copySession(data)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(data), nil
}

func (s *memoryStore) Update(ctx context.Context, data *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[data.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != data.Version {
		return ErrVersionConflict
	}

	data.Version++
	data.UpdatedAt = time.Now()
	s.sessions[data.ID] = copySession(data)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}

// copySession deep-copies a session so stored state and caller state never
// alias each other, in either direction.
func copySession(data *Session) *Session {
	cp := *data
	cp.History = append([]model.ConversationTurn(nil), data.History...)
	return &cp
}

func (s *memoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *memoryStore) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
