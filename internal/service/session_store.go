package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

const (
	defaultSessionTTL     = 24 * time.Hour
	defaultRestoreTimeout = 10 * time.Second

	loginUnavailableMessage = "Unable to sign in right now. Please try again."
)

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	ID             string               // Required: browser session id
	Storage        ports.SessionStorage // Required
	Gateway        *AuthGateway         // Required
	TTL            time.Duration        // Optional: durable entry lifetime (default 24h)
	RestoreTimeout time.Duration        // Optional: bound for a background restore (default 10s)
	Logger         *slog.Logger         // Optional
	Metrics        *metrics.Recorder    // Optional
	Now            func() time.Time     // Optional: clock for token expiry checks
}

// SessionStore owns the authentication state of one browser session. Readers
// get deep-copied snapshots; state changes only through Login, Logout and
// Restore.
type SessionStore struct {
	id             string
	storage        ports.SessionStorage
	gateway        *AuthGateway
	ttl            time.Duration
	restoreTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Recorder
	now            func() time.Time

	// writeMu serializes mutations including their storage effects.
	writeMu sync.Mutex

	mu      sync.RWMutex
	session domainauth.Session
	// gen is bumped by Login and Logout so an older Restore can detect it lost.
	gen uint64

	readyOnce   sync.Once
	ready       chan struct{}
	restoreOnce sync.Once
}

// NewSessionStore creates a store in the loading state. Call StartRestore or
// Restore to resolve it.
func NewSessionStore(opts SessionStoreOptions) (*SessionStore, error) {
	if opts.ID == "" {
		return nil, errors.New("session id is required")
	}
	if opts.Storage == nil {
		return nil, errors.New("SessionStorage is required")
	}
	if opts.Gateway == nil {
		return nil, errors.New("AuthGateway is required")
	}

	s := &SessionStore{
		id:             opts.ID,
		storage:        opts.Storage,
		gateway:        opts.Gateway,
		ttl:            opts.TTL,
		restoreTimeout: opts.RestoreTimeout,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		now:            opts.Now,
		session:        domainauth.LoadingSession(),
		ready:          make(chan struct{}),
	}
	if s.ttl <= 0 {
		s.ttl = defaultSessionTTL
	}
	if s.restoreTimeout <= 0 {
		s.restoreTimeout = defaultRestoreTimeout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "session_store")
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// ID returns the browser session id.
func (s *SessionStore) ID() string { return s.id }

// Snapshot returns a deep copy of the current session.
func (s *SessionStore) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// Token returns the current access token, or "" when signed out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Ready is closed once the initial restore has settled, or once a Login or
// Logout made it moot.
func (s *SessionStore) Ready() <-chan struct{} { return s.ready }

func (s *SessionStore) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Login authenticates with the backend and persists the new session. On any
// failure the current session is left untouched.
func (s *SessionStore) Login(ctx context.Context, creds domainauth.Credentials) Result {
	out := s.gateway.Login(ctx, creds)
	if !out.OK {
		s.metrics.Login(out.Err)
		return out.Result
	}

	stored, err := encodeStored(out.Tokens, out.User)
	if err != nil {
		s.metrics.Login(err)
		s.logger.ErrorContext(ctx, "encode session", "error", err)
		return Failed(err, loginUnavailableMessage)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.storage.Save(ctx, s.id, stored, s.durableTTL(out.Tokens.Access)); err != nil {
		s.metrics.Login(err)
		s.logger.ErrorContext(ctx, "persist session", "error", err)
		return Result{Message: loginUnavailableMessage, Err: err}
	}

	s.mu.Lock()
	s.gen++
	s.session = domainauth.AuthenticatedSession(out.Tokens.Access, out.User)
	s.mu.Unlock()
	s.markReady()

	s.metrics.Login(nil)
	s.logger.InfoContext(ctx, "user signed in", "username", out.User.Username, "role", out.User.UserType)
	return Succeeded("")
}

// Logout clears memory and durable storage. It always succeeds.
func (s *SessionStore) Logout(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.clearLocked(ctx)
	s.logger.DebugContext(ctx, "session cleared")
}

// ForceLogout clears the session after the backend rejected token. A token
// that is no longer current is ignored, so a late rejection cannot sign out a
// newer login.
func (s *SessionStore) ForceLogout(ctx context.Context, token string, cause error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.Token() != token {
		s.logger.DebugContext(ctx, "ignoring rejection of a superseded token", "error", cause)
		return
	}
	s.clearLocked(ctx)
	s.logger.InfoContext(ctx, "session revoked by backend", "error", cause)
}

func (s *SessionStore) clearLocked(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	s.session = domainauth.EmptySession()
	s.mu.Unlock()
	s.markReady()

	if err := s.storage.Clear(context.WithoutCancel(ctx), s.id); err != nil {
		s.logger.WarnContext(ctx, "clear session storage", "error", err)
	}
}

// settleEmpty resolves a brand-new store as signed out without a restore.
func (s *SessionStore) settleEmpty() {
	s.restoreOnce.Do(func() {})
	s.mu.Lock()
	s.session = domainauth.EmptySession()
	s.mu.Unlock()
	s.markReady()
}

// StartRestore runs Restore on a background goroutine bounded by the restore
// timeout. ctx must not be a request context; cancelling it aborts the restore.
// Only the first call has any effect.
func (s *SessionStore) StartRestore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		go func() {
			rctx, cancel := context.WithTimeout(ctx, s.restoreTimeout)
			defer cancel()
			s.Restore(rctx)
		}()
	})
}

// Restore loads durable storage and, when it holds a complete session with an
// unexpired token, validates it against the profile endpoint. Any failure
// clears storage and leaves the session empty. A Login or Logout that happened
// after Restore began wins over its result.
func (s *SessionStore) Restore(ctx context.Context) {
	defer s.markReady()

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	outcome := s.restore(ctx, gen)
	s.metrics.Restore(outcome)
	s.logger.DebugContext(ctx, "session restore finished", "outcome", outcome)
}

func (s *SessionStore) restore(ctx context.Context, gen uint64) string {
	stored, err := s.storage.Load(ctx, s.id)
	switch {
	case apperrors.IsNotFound(err):
		return s.settle(ctx, gen, domainauth.EmptySession(), false, metrics.RestoreEmpty)
	case err != nil:
		s.logger.WarnContext(ctx, "load stored session", "error", err)
		return s.settle(ctx, gen, domainauth.EmptySession(), true, metrics.RestoreError)
	}

	user, ok := decodeStored(stored)
	if !ok {
		return s.settle(ctx, gen, domainauth.EmptySession(), true, metrics.RestoreInvalid)
	}
	if tokenExpired(stored.AccessToken, s.now()) {
		return s.settle(ctx, gen, domainauth.EmptySession(), true, metrics.RestoreExpired)
	}

	profile, err := s.gateway.Profile(ctx, stored.AccessToken)
	if err != nil {
		outcome := metrics.RestoreError
		if apperrors.IsUnauthorized(err) {
			outcome = metrics.RestoreExpired
		}
		s.logger.InfoContext(ctx, "stored session rejected", "error", err)
		return s.settle(ctx, gen, domainauth.EmptySession(), true, outcome)
	}

	merged := user.Merge(profile)
	return s.settle(ctx, gen, domainauth.AuthenticatedSession(stored.AccessToken, merged), false, metrics.RestoreRestored)
}

// settle applies a restore result unless a newer mutation happened since gen
// was captured.
func (s *SessionStore) settle(ctx context.Context, gen uint64, next domainauth.Session, clear bool, outcome string) string {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	stale := s.gen != gen
	s.mu.RUnlock()
	if stale {
		return metrics.RestoreSuperseded
	}

	if clear {
		if err := s.storage.Clear(context.WithoutCancel(ctx), s.id); err != nil {
			s.logger.WarnContext(ctx, "clear session storage", "error", err)
		}
	}

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()
	return outcome
}

// durableTTL bounds the configured TTL by the access token's own expiry.
func (s *SessionStore) durableTTL(token string) time.Duration {
	ttl := s.ttl
	if exp, ok := tokenExpiry(token); ok {
		if left := exp.Sub(s.now()); left > 0 && left < ttl {
			ttl = left
		}
	}
	return ttl
}

// tokenExpired reports whether token carries an exp claim at or before now.
// Tokens that are not JWTs, or carry no exp, are left for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	exp, ok := tokenExpiry(token)
	return ok && !now.Before(exp)
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	// Signature is checked by the backend on every call.
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func encodeStored(tokens domainauth.Tokens, user domainauth.UserSummary) (ports.StoredSession, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return ports.StoredSession{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode user")
	}
	return ports.StoredSession{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		User:         string(raw),
	}, nil
}

func decodeStored(stored ports.StoredSession) (domainauth.UserSummary, bool) {
	if !stored.Complete() {
		return domainauth.UserSummary{}, false
	}
	var user domainauth.UserSummary
	if err := json.Unmarshal([]byte(stored.User), &user); err != nil {
		return domainauth.UserSummary{}, false
	}
	if _, known := domainauth.ParseRole(string(user.UserType)); !known || user.Username == "" {
		return domainauth.UserSummary{}, false
	}
	return user, true
}
