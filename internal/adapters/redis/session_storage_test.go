package redis

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
	"github.com/bloodconnect/bloodconnect-web/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestSessionStorage_SaveAndLoad(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStorage(client)
	ctx := context.Background()

	want := ports.StoredSession{AccessToken: "a", RefreshToken: "r", User: `{"username":"alice"}`}
	require.NoError(t, store.Save(ctx, "sid-1", want, time.Minute))

	got, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, DefaultKeyPrefix+"sid-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestSessionStorage_LoadMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStorage(client)
	_, err := store.Load(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = store.Load(context.Background(), "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStorage_SaveReplacesAllEntries(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStorageWithPrefix(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", ports.StoredSession{AccessToken: "a1", RefreshToken: "r1", User: "u1"}, time.Minute))
	require.NoError(t, store.Save(ctx, "sid", ports.StoredSession{AccessToken: "a2", User: "u2"}, time.Minute))

	got, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, ports.StoredSession{AccessToken: "a2", User: "u2"}, got)
}

func TestSessionStorage_Clear(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStorage(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", ports.StoredSession{AccessToken: "a", User: "u"}, time.Minute))
	require.NoError(t, store.Clear(ctx, "sid"))
	require.NoError(t, store.Clear(ctx, "sid"), "clearing twice is fine")

	_, err := store.Load(ctx, "sid")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStorage_SaveValidation(t *testing.T) {
	store := NewSessionStorage(nil)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", ports.StoredSession{}, time.Minute))
	assert.Error(t, store.Save(ctx, "sid", ports.StoredSession{}, 0))
	assert.NoError(t, store.Clear(ctx, ""))
}
