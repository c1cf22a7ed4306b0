// Package postgres provides the Postgres-backed durable session storage.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

var (
	_ ports.SessionStorage = (*SessionStorage)(nil)
	_ ports.SessionPurger  = (*SessionStorage)(nil)
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS client_sessions (
	id            TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	user_json     TEXT NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const indexSQL = `CREATE INDEX IF NOT EXISTS client_sessions_expires_at_idx ON client_sessions (expires_at)`

// SessionStorage stores one row per browser session in client_sessions.
type SessionStorage struct {
	DB  *sql.DB
	now func() time.Time
}

// Options configures SessionStorage.
type Options struct {
	DB *sql.DB
	// Now overrides the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

// NewSessionStorage creates a Postgres session storage. Call EnsureSchema before use.
func NewSessionStorage(opts Options) (*SessionStorage, error) {
	if opts.DB == nil {
		return nil, errors.New("database connection is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStorage{DB: opts.DB, now: now}, nil
}

// EnsureSchema creates the table and index if missing. Concurrent bootstraps from
// several replicas race on the catalog; losing that race is not an error.
func (s *SessionStorage) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{schemaSQL, indexSQL} {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			mapped := apperrors.MapDBError(err)
			if apperrors.IsConflict(mapped) {
				continue
			}
			return fmt.Errorf("ensure session schema: %w", mapped)
		}
	}
	return nil
}

// Save upserts the three entries with an expiry of now+ttl.
func (s *SessionStorage) Save(ctx context.Context, id string, sess ports.StoredSession, ttl time.Duration) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}

	const q = `
INSERT INTO client_sessions (id, access_token, refresh_token, user_json, expires_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	access_token = EXCLUDED.access_token,
	refresh_token = EXCLUDED.refresh_token,
	user_json = EXCLUDED.user_json,
	expires_at = EXCLUDED.expires_at,
	updated_at = EXCLUDED.updated_at`

	now := s.now().UTC()
	if _, err := s.DB.ExecContext(ctx, q, id, sess.AccessToken, sess.RefreshToken, sess.User, now.Add(ttl), now); err != nil {
		return fmt.Errorf("save session: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Load returns unexpired entries or a not-found error.
func (s *SessionStorage) Load(ctx context.Context, id string) (ports.StoredSession, error) {
	if id == "" {
		return ports.StoredSession{}, apperrors.NotFound("session not found")
	}

	const q = `SELECT access_token, refresh_token, user_json FROM client_sessions WHERE id = $1 AND expires_at > $2`

	var out ports.StoredSession
	err := s.DB.QueryRowContext(ctx, q, id, s.now().UTC()).Scan(&out.AccessToken, &out.RefreshToken, &out.User)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return ports.StoredSession{}, apperrors.NotFound("session not found")
		}
		return ports.StoredSession{}, fmt.Errorf("load session: %w", mapped)
	}
	return out, nil
}

// Clear deletes the row. Clearing an absent session is not an error.
func (s *SessionStorage) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM client_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("clear session: %w", apperrors.MapDBError(err))
	}
	return nil
}

// PurgeExpired deletes rows whose expiry has passed and reports how many were removed.
func (s *SessionStorage) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM client_sessions WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge sessions rows affected: %w", err)
	}
	return n, nil
}
