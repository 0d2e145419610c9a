package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/celestial-scale/internal/domain/weighin"
)

type entry struct {
	session   weighin.Session
	expiresAt time.Time
}

// MemoryStore is an in-process session store for single-instance deployments and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		now:      nowUTC,
	}
}

// Get implements weighin.SessionStore.
func (s *MemoryStore) Get(_ context.Context, id string) (weighin.Session, bool, error) {
	if id == "" {
		return weighin.Session{}, false, nil
	}
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return weighin.Session{}, false, nil
	}
	if s.expired(e.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return weighin.Session{}, false, nil
	}
	return e.session, true, nil
}

// Save stores the session with an optional TTL.
func (s *MemoryStore) Save(_ context.Context, session weighin.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.sessions[session.ID] = entry{session: session, expiresAt: exp}
	s.sweepLocked(now)
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.sessions {
		if !s.expired(e.expiresAt) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		if !e.expiresAt.IsZero() && e.expiresAt.Before(now) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

var _ weighin.SessionStore = (*MemoryStore)(nil)
