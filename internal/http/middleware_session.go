package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/access"
	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

// DefaultSessionCookieName names the browser session cookie.
const DefaultSessionCookieName = "session_id"

// SessionResolver yields the process-local store for a browser session id.
type SessionResolver interface {
	Get(id string) (*service.SessionStore, error)
}

// SessionRotator moves a sign-in onto a fresh browser session id.
type SessionRotator interface {
	SessionResolver
	Issue() (*service.SessionStore, error)
	Adopt(store *service.SessionStore)
	Drop(id string)
}

var _ SessionRotator = (*service.SessionRegistry)(nil)

// sessionIDCookie writes the browser session cookie.
type sessionIDCookie struct {
	name   string
	domain string
	maxAge time.Duration
}

func (c sessionIDCookie) set(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    id,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionCookieConfig configures the Sessions middleware.
type SessionCookieConfig struct {
	Registry     SessionResolver // Required
	CookieName   string
	CookieDomain string
	MaxAge       time.Duration // cookie lifetime; matches the durable session TTL
	Logger       *slog.Logger
}

func (cfg SessionCookieConfig) cookie() sessionIDCookie {
	name := cfg.CookieName
	if name == "" {
		name = DefaultSessionCookieName
	}
	return sessionIDCookie{name: name, domain: cfg.CookieDomain, maxAge: cfg.MaxAge}
}

// Sessions identifies the browser by a random uuid cookie, issuing one when it
// is missing or malformed, and attaches that browser's SessionStore to the
// request context.
func Sessions(cfg SessionCookieConfig) func(http.Handler) http.Handler {
	cookie := cfg.cookie()
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieValue(r, cookie.name)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				cookie.set(w, r, id)
			}

			store, err := cfg.Registry.Get(id)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "resolve session store", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionStore(r.Context(), store)))
		})
	}
}

// GuardOptions configures RequireRole.
type GuardOptions struct {
	// RestoreWait bounds how long a request waits for an in-flight restore
	// before the pending page is shown.
	RestoreWait time.Duration
	Metrics     *metrics.Recorder
	// RenderPending draws the neutral pending page for browsers.
	RenderPending func(w http.ResponseWriter, r *http.Request)
}

// RequireRole executes access.Authorize for every request to a role-gated view.
// Browsers get the pending page or a redirect (303, or Hx-Redirect for htmx);
// JSON clients get 202, 401 or 403.
func RequireRole(opts GuardOptions, role domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, ok := SessionStoreFromContext(r.Context())
			if !ok {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			awaitRestore(r.Context(), store, opts.RestoreWait)
			snap := store.Snapshot()
			decision := access.Authorize(snap, role)
			opts.Metrics.Decision(string(role), decision.Kind.String())

			switch decision.Kind {
			case access.Allow:
				next.ServeHTTP(w, r.WithContext(withSnapshot(r.Context(), snap)))
			case access.Pending:
				w.Header().Set("Retry-After", strconv.Itoa(pendingRetrySeconds))
				if !IsBrowserRequest(r) || opts.RenderPending == nil {
					WriteJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
					return
				}
				opts.RenderPending(w, r)
			default:
				if !IsBrowserRequest(r) {
					writeDeniedJSON(w, decision.Target)
					return
				}
				redirect(w, r, decision.Target)
			}
		})
	}
}

const pendingRetrySeconds = 1

func awaitRestore(ctx context.Context, store *service.SessionStore, wait time.Duration) {
	if wait <= 0 {
		return
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-store.Ready():
	case <-t.C:
	case <-ctx.Done():
	}
}

func writeDeniedJSON(w http.ResponseWriter, target string) {
	if target == access.LoginPath {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "redirect": target})
		return
	}
	WriteJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden", "redirect": target})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// isSecureRequest reports TLS directly or via X-Forwarded-Proto (comma-separated values allowed).
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for proto := range strings.SplitSeq(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
