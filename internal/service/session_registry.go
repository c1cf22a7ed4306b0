package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

const defaultRegistryIdle = 30 * time.Minute

// SessionRegistryOptions groups dependencies for SessionRegistry.
type SessionRegistryOptions struct {
	Storage        ports.SessionStorage // Required
	Gateway        *AuthGateway         // Required
	TTL            time.Duration        // Optional: durable session lifetime
	RestoreTimeout time.Duration        // Optional
	IdleTTL        time.Duration        // Optional: how long an unused store stays in memory
	Logger         *slog.Logger         // Optional
	Metrics        *metrics.Recorder    // Optional
	Now            func() time.Time     // Optional
}

// SessionRegistry maps browser session ids to their process-local SessionStore.
// A store is created, and its restore started, the first time an id is seen or
// after it idled out of the registry.
type SessionRegistry struct {
	opts  SessionRegistryOptions
	mu    sync.Mutex
	cache *cache.Cache
	// bg is the parent for background restores; cancelled by Close.
	bg     context.Context
	cancel context.CancelFunc
}

// NewSessionRegistry constructs a SessionRegistry.
func NewSessionRegistry(opts SessionRegistryOptions) (*SessionRegistry, error) {
	if opts.Storage == nil {
		return nil, errors.New("SessionStorage is required")
	}
	if opts.Gateway == nil {
		return nil, errors.New("AuthGateway is required")
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultRegistryIdle
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	bg, cancel := context.WithCancel(context.Background())
	return &SessionRegistry{
		opts:   opts,
		cache:  cache.New(opts.IdleTTL, opts.IdleTTL/2),
		bg:     bg,
		cancel: cancel,
	}, nil
}

// Get returns the store for id, creating it and starting its restore when needed.
func (r *SessionRegistry) Get(id string) (*SessionStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(id); ok {
		store := v.(*SessionStore)
		r.cache.SetDefault(id, store)
		return store, nil
	}

	store, err := r.newStore(id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(id, store)
	store.StartRestore(r.bg)
	return store, nil
}

// Issue creates a signed-out store under a fresh random id. It is not
// registered until Adopt, so a failed sign-in leaves nothing behind.
func (r *SessionRegistry) Issue() (*SessionStore, error) {
	store, err := r.newStore(uuid.NewString())
	if err != nil {
		return nil, err
	}
	store.settleEmpty()
	return store, nil
}

// Adopt registers a store obtained from Issue.
func (r *SessionRegistry) Adopt(store *SessionStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.SetDefault(store.ID(), store)
}

// Drop evicts the store for id. A later request with that id starts over from
// durable storage.
func (r *SessionRegistry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(id)
}

func (r *SessionRegistry) newStore(id string) (*SessionStore, error) {
	return NewSessionStore(SessionStoreOptions{
		ID:             id,
		Storage:        r.opts.Storage,
		Gateway:        r.opts.Gateway,
		TTL:            r.opts.TTL,
		RestoreTimeout: r.opts.RestoreTimeout,
		Logger:         r.opts.Logger,
		Metrics:        r.opts.Metrics,
		Now:            r.opts.Now,
	})
}

// Len reports how many stores are resident.
func (r *SessionRegistry) Len() int {
	return r.cache.ItemCount()
}

// Close cancels in-flight restores and drops every resident store.
func (r *SessionRegistry) Close() {
	r.cancel()
	r.cache.Flush()
}
