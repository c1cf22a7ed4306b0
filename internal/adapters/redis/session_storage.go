package redis

// Package redis provides the Redis-backed durable session storage.

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
	"github.com/redis/go-redis/v9"
)

// Hash fields holding the three durable entries.
const (
	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
	fieldUser         = "user"
)

// DefaultKeyPrefix namespaces session hashes.
const DefaultKeyPrefix = "bloodconnect:session:"

var _ ports.SessionStorage = (*SessionStorage)(nil)

// SessionStorage keeps one hash per browser session. The hash expires as a unit.
type SessionStorage struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStorage creates a Redis-based session storage with the default key prefix.
func NewSessionStorage(client redis.UniversalClient) *SessionStorage {
	return NewSessionStorageWithPrefix(client, DefaultKeyPrefix)
}

// NewSessionStorageWithPrefix creates a Redis session storage with a custom key prefix.
func NewSessionStorageWithPrefix(client redis.UniversalClient, prefix string) *SessionStorage {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionStorage{client: client, prefix: prefix}
}

func (s *SessionStorage) key(id string) string { return s.prefix + id }

// Save replaces all three entries atomically and sets the hash TTL.
func (s *SessionStorage) Save(ctx context.Context, id string, sess ports.StoredSession, ttl time.Duration) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}

	key := s.key(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldAccessToken, sess.AccessToken,
			fieldRefreshToken, sess.RefreshToken,
			fieldUser, sess.User,
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Load returns the stored entries or a not-found error.
func (s *SessionStorage) Load(ctx context.Context, id string) (ports.StoredSession, error) {
	if id == "" {
		return ports.StoredSession{}, apperrors.NotFound("session not found")
	}

	vals, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return ports.StoredSession{}, fmt.Errorf("redis load session: %w", err)
	}
	if len(vals) == 0 {
		return ports.StoredSession{}, apperrors.NotFound("session not found")
	}
	return ports.StoredSession{
		AccessToken:  vals[fieldAccessToken],
		RefreshToken: vals[fieldRefreshToken],
		User:         vals[fieldUser],
	}, nil
}

// Clear removes all entries. Clearing an absent session is not an error.
func (s *SessionStorage) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}
