// Package ports defines interfaces (hexagonal ports) for storage and the REST backend.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"time"
)

// StoredSession is the durable client state for one browser session. The three
// entries are written and cleared together.
type StoredSession struct {
	AccessToken  string
	RefreshToken string
	User         string // JSON-encoded UserSummary
}

// Complete reports whether both the token and the cached user are present.
func (s StoredSession) Complete() bool {
	return s.AccessToken != "" && s.User != ""
}

// SessionStorage persists StoredSession values keyed by browser session id.
// Load returns a not-found error when nothing is stored.
type SessionStorage interface {
	Load(ctx context.Context, id string) (StoredSession, error)
	Save(ctx context.Context, id string, s StoredSession, ttl time.Duration) error
	Clear(ctx context.Context, id string) error
}

// SessionPurger is implemented by storages that need periodic removal of expired entries.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
