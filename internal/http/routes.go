package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	bloodconnect "github.com/bloodconnect/bloodconnect-web"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/access"
	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
)

// DefaultMetricsPath is where Prometheus metrics are exposed when enabled.
const DefaultMetricsPath = "/metrics"

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Registry  SessionRotator  // Required
	Registrar Registrar       // Required
	Donor     DonorDashboard  // Required
	Staff     StaffDashboard  // Required
	Admin     AdminDashboard  // Required
	Chat      ChatAssistant   // Required

	Metrics        *metrics.Recorder
	MetricsHandler http.Handler // Optional: mounted at MetricsPath when set
	MetricsPath    string

	SessionCookieName string
	SessionTTL        time.Duration
	RestoreWait       time.Duration
	CookieDomain      string

	// Optional: override the embedded (or, in dev, on-disk) assets.
	TemplateFS fs.FS
	StaticFS   fs.FS
	Now        func() time.Time

	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

func (s RouterServices) validate() error {
	switch {
	case s.Registry == nil:
		return errors.New("session registry is required")
	case s.Registrar == nil:
		return errors.New("registrar is required")
	case s.Donor == nil, s.Staff == nil, s.Admin == nil:
		return errors.New("dashboard services are required")
	case s.Chat == nil:
		return errors.New("chat assistant is required")
	}
	return nil
}

// NewRouter creates the HTTP router wrapped in browser detection and CSRF
// protection. Recovery, logging and compression are layered on by the caller.
func NewRouter(services RouterServices) (http.Handler, error) {
	if err := services.validate(); err != nil {
		return nil, err
	}
	if services.Logger == nil {
		services.Logger = slog.Default()
	}

	ui, err := setupUIHandlers(services)
	if err != nil {
		return nil, err
	}
	static, err := staticHandler(services)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", static)
	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		mux.Handle("GET "+path, services.MetricsHandler)
	}

	sessions := Sessions(sessionCookieConfig(services))
	guard := GuardOptions{
		RestoreWait:   services.RestoreWait,
		Metrics:       services.Metrics,
		RenderPending: ui.RenderPending,
	}
	registerPublicRoutes(mux, ui, sessions)
	registerChatRoutes(mux, ui, sessions)
	registerDonorRoutes(mux, ui, roleWrap(sessions, guard, domainauth.RoleDonor))
	registerStaffRoutes(mux, ui, roleWrap(sessions, guard, domainauth.RoleHospitalStaff))
	registerAdminRoutes(mux, ui, roleWrap(sessions, guard, domainauth.RoleBloodBankManager))

	// Unknown paths land on the home page.
	mux.Handle("/", http.HandlerFunc(notFoundRedirect))

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})
	return BrowserDetection()(csrf(mux)), nil
}

func sessionCookieConfig(services RouterServices) SessionCookieConfig {
	return SessionCookieConfig{
		Registry:     services.Registry,
		CookieName:   services.SessionCookieName,
		CookieDomain: services.CookieDomain,
		MaxAge:       services.SessionTTL,
		Logger:       services.Logger,
	}
}

type middleware = func(http.Handler) http.Handler

func roleWrap(sessions middleware, guard GuardOptions, role domainauth.Role) middleware {
	requireRole := RequireRole(guard, role)
	return func(h http.Handler) http.Handler {
		return sessions(requireRole(h))
	}
}

func notFoundRedirect(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, access.LandingPath)
}

func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers, wrap middleware) {
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Landing)))
	mux.Handle("GET /login", wrap(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /login", wrap(http.HandlerFunc(h.Login)))
	mux.Handle("POST /logout", wrap(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /register", wrap(http.HandlerFunc(h.RegisterChoice)))
	mux.Handle("GET /register/donor", wrap(http.HandlerFunc(h.RegisterDonorPage)))
	mux.Handle("POST /register/donor", wrap(http.HandlerFunc(h.RegisterDonor)))
	mux.Handle("GET /register/hospital", wrap(http.HandlerFunc(h.RegisterHospitalPage)))
	mux.Handle("POST /register/hospital", wrap(http.HandlerFunc(h.RegisterHospital)))
	mux.Handle("GET /auth/status", wrap(http.HandlerFunc(h.AuthStatus)))
}

func registerChatRoutes(mux *http.ServeMux, h *UIHandlers, wrap middleware) {
	mux.Handle("POST /chat/open", wrap(http.HandlerFunc(h.ChatOpen)))
	mux.Handle("POST /chat/messages", wrap(http.HandlerFunc(h.ChatMessage)))
	mux.Handle("POST /chat/close", wrap(http.HandlerFunc(h.ChatClose)))
}

func registerDonorRoutes(mux *http.ServeMux, h *UIHandlers, wrap middleware) {
	mux.Handle("GET /donor-dashboard", wrap(http.HandlerFunc(h.DonorOverview)))
	mux.Handle("GET /donor-dashboard/notifications", wrap(http.HandlerFunc(h.DonorNotifications)))
	mux.Handle("POST /donor-dashboard/notifications/{id}/respond", wrap(http.HandlerFunc(h.RespondToNotification)))
	mux.Handle("GET /donor-dashboard/profile", wrap(http.HandlerFunc(h.DonorProfile)))
	mux.Handle("POST /donor-dashboard/profile", wrap(http.HandlerFunc(h.UpdateDonorProfile)))
	mux.Handle("GET /donor-dashboard/history", wrap(http.HandlerFunc(h.DonorHistory)))
}

func registerStaffRoutes(mux *http.ServeMux, h *UIHandlers, wrap middleware) {
	mux.Handle("GET /staff-dashboard", wrap(http.HandlerFunc(h.StaffCreatePage)))
	mux.Handle("POST /staff-dashboard/requests", wrap(http.HandlerFunc(h.CreateBloodRequest)))
	mux.Handle("GET /staff-dashboard/requests", wrap(http.HandlerFunc(h.StaffRequests)))
	mux.Handle("GET /staff-dashboard/profile", wrap(http.HandlerFunc(h.StaffProfile)))
	mux.Handle("GET /staff-dashboard/donors", wrap(http.HandlerFunc(h.StaffDonors)))
}

func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, wrap middleware) {
	mux.Handle("GET /admin-dashboard", wrap(http.HandlerFunc(h.AdminPending)))
	mux.Handle("GET /admin-dashboard/analytics", wrap(http.HandlerFunc(h.AdminAnalytics)))
	mux.Handle("POST /admin-dashboard/requests/{id}/approve", wrap(http.HandlerFunc(h.ApproveRequest)))
	mux.Handle("POST /admin-dashboard/requests/{id}/reject", wrap(http.HandlerFunc(h.RejectRequest)))
}

// setupUIHandlers creates UI handlers with the template renderer.
// In dev mode templates are loaded from disk for hot reloading.
func setupUIHandlers(services RouterServices) (*UIHandlers, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(bloodconnect.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, fmt.Errorf("template filesystem: %w", err)
			}
			templateFS = sub
		}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    services.IsDev,
		Logger:     services.Logger,
		Now:        services.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	return &UIHandlers{
		T:           tr,
		Registrar:   services.Registrar,
		Donor:       services.Donor,
		Staff:       services.Staff,
		Admin:       services.Admin,
		Chat:        services.Chat,
		Sessions:    services.Registry,
		Cookie:      sessionCookieConfig(services).cookie(),
		RestoreWait: services.RestoreWait,
		Logger:      services.Logger,
	}, nil
}

// staticHandler serves /static/* from disk in dev mode and from the embedded
// FS otherwise.
func staticHandler(services RouterServices) (http.Handler, error) {
	staticFS := services.StaticFS
	if staticFS == nil {
		if services.IsDev {
			staticFS = os.DirFS(StaticPathFromRoot)
		} else {
			sub, err := fs.Sub(bloodconnect.StaticFS, StaticPathFromRoot)
			if err != nil {
				return nil, fmt.Errorf("static filesystem: %w", err)
			}
			staticFS = sub
		}
	}
	files := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	return staticWithCacheHeaders(files, services.IsDev), nil
}

// staticWithCacheHeaders wraps a static file handler to add cache headers.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}
		handler.ServeHTTP(w, r)
	})
}
