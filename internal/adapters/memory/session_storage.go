// Package memory provides an in-process session storage for development and tests.
// Entries do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

var (
	_ ports.SessionStorage = (*SessionStorage)(nil)
	_ ports.SessionPurger  = (*SessionStorage)(nil)
)

type entry struct {
	value     ports.StoredSession
	expiresAt time.Time
}

// SessionStorage is a mutex-guarded map with per-entry expiry.
type SessionStorage struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

// NewSessionStorage creates an empty storage. A nil clock uses time.Now.
func NewSessionStorage(now func() time.Time) *SessionStorage {
	if now == nil {
		now = time.Now
	}
	return &SessionStorage{data: make(map[string]entry), now: now}
}

func (s *SessionStorage) Load(_ context.Context, id string) (ports.StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return ports.StoredSession{}, apperrors.NotFound("session not found")
	}
	return e.value, nil
}

func (s *SessionStorage) Save(_ context.Context, id string, sess ports.StoredSession, ttl time.Duration) error {
	if id == "" {
		return apperrors.Validation("session ID cannot be empty")
	}
	if ttl <= 0 {
		return apperrors.Validation("session ttl must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = entry{value: sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStorage) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// PurgeExpired drops expired entries.
func (s *SessionStorage) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for id, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of entries, expired or not.
func (s *SessionStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
