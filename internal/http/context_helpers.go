package httpx

import (
	"context"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

type (
	storeKey    struct{}
	snapshotKey struct{}
)

// WithSessionStore returns a child context carrying the browser session's store.
func WithSessionStore(ctx context.Context, store *service.SessionStore) context.Context {
	if store == nil {
		return ctx
	}
	return context.WithValue(ctx, storeKey{}, store)
}

// SessionStoreFromContext returns the store attached by the session middleware.
func SessionStoreFromContext(ctx context.Context) (*service.SessionStore, bool) {
	store, ok := ctx.Value(storeKey{}).(*service.SessionStore)
	return store, ok && store != nil
}

// withSnapshot pins the snapshot RequireRole authorized so the handler renders
// exactly what was checked.
func withSnapshot(ctx context.Context, s domainauth.Session) context.Context {
	return context.WithValue(ctx, snapshotKey{}, s)
}

// SessionFromContext returns the authorized snapshot when present, otherwise a
// fresh snapshot of the store, otherwise the empty session.
func SessionFromContext(ctx context.Context) domainauth.Session {
	if s, ok := ctx.Value(snapshotKey{}).(domainauth.Session); ok {
		return s
	}
	if store, ok := SessionStoreFromContext(ctx); ok {
		return store.Snapshot()
	}
	return domainauth.EmptySession()
}

// sessionID returns the browser session id, or "" outside the session middleware.
func sessionID(ctx context.Context) string {
	if store, ok := SessionStoreFromContext(ctx); ok {
		return store.ID()
	}
	return ""
}
