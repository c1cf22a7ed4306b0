package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/access"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

const loadFailedMessage = "Failed to load data. Please try again."

// Registrar creates accounts.
type Registrar interface {
	RegisterDonor(ctx context.Context, reg model.DonorRegistration) service.Result
	RegisterHospital(ctx context.Context, reg model.HospitalRegistration) service.Result
}

// DonorDashboard is what the donor views need.
type DonorDashboard interface {
	Overview(ctx context.Context, token string) (model.DonorOverview, error)
	Profile(ctx context.Context, token string) (model.DonorProfile, error)
	UpdateProfile(ctx context.Context, token string, upd model.DonorProfileUpdate) (model.DonorProfile, service.Result)
	History(ctx context.Context, token string) ([]model.Donation, error)
	Notifications(ctx context.Context, sid, token string, refresh bool) ([]model.Notification, error)
	Respond(ctx context.Context, sid, token string, id int64, resp model.NotificationResponse) ([]model.Notification, service.Result)
	Forget(sid string)
}

// StaffDashboard is what the hospital staff views need.
type StaffDashboard interface {
	HospitalProfile(ctx context.Context, token string) (model.HospitalProfile, error)
	Requests(ctx context.Context, token string) ([]model.BloodRequest, error)
	SearchDonors(ctx context.Context, token string, search model.DonorSearch) ([]model.AvailableDonor, error)
	CreateRequest(ctx context.Context, token string, form model.BloodRequestForm) (model.BloodRequestForm, service.Result)
}

// AdminDashboard is what the blood bank manager views need.
type AdminDashboard interface {
	Overview(ctx context.Context, sid, token string) (model.AdminOverview, error)
	Approve(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, service.Result)
	Reject(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, service.Result)
	Analytics(ctx context.Context) (model.PlatformStats, []model.Activity, error)
	Forget(sid string)
}

// ChatAssistant drives the per-browser chat widget.
type ChatAssistant interface {
	View(sid string) service.ChatView
	Open(sid string) service.ChatView
	Ask(sid, text string) service.ChatView
	Close(sid string) service.ChatView
}

var (
	_ Registrar      = (*service.AuthGateway)(nil)
	_ DonorDashboard = (*service.DonorService)(nil)
	_ StaffDashboard = (*service.StaffService)(nil)
	_ AdminDashboard = (*service.AdminService)(nil)
	_ ChatAssistant  = (*service.ChatService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T           *TemplateRenderer
	Registrar   Registrar
	Donor       DonorDashboard
	Staff       StaffDashboard
	Admin       AdminDashboard
	Chat        ChatAssistant
	Sessions    SessionRotator
	Cookie      sessionIDCookie
	RestoreWait time.Duration
	Logger      *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// page builds the shared data for meta, including the chat widget state.
func (h *UIHandlers) page(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	b := NewTemplateData(r, meta)
	if h.Chat != nil {
		b.With("Chat", h.Chat.View(sessionID(r.Context())))
	}
	return b
}

// render writes the page as a full document, or as a partial for htmx. A
// request whose client already went away renders nothing.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if r.Context().Err() != nil {
		return
	}
	var err error
	if WantsPartial(r) {
		SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
		err = h.T.RenderPartial(w, data)
	} else {
		err = h.T.RenderFull(w, data)
	}
	if err != nil {
		h.renderTemplateError(w, r, err)
	}
}

func (h *UIHandlers) renderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "render page", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// renderError shows the standalone error page.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := basePageData(r, PageMeta{Title: "BloodConnect - Error", PageTitle: http.StatusText(status)})
	data["Status"] = status
	data["ErrorMessage"] = message
	if err := h.T.RenderError(w, status, data); err != nil {
		http.Error(w, message, status)
	}
}

// RenderPending is the neutral page shown while a stored session is still
// being validated. It polls the same URL every second.
func (h *UIHandlers) RenderPending(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, PageMeta{
		Title:       "BloodConnect - Loading",
		PageTitle:   "Loading",
		CurrentPage: PagePending,
	}).With("PollURL", r.URL.RequestURI()).With("RetrySeconds", pendingRetrySeconds).Build()
	h.render(w, r, data)
}

// handleReadError deals with a failed backend read. A rejected token signs the
// browser out and redirects to the login page; anything else becomes a banner
// on the page data, and the caller renders with defaults.
func (h *UIHandlers) handleReadError(w http.ResponseWriter, r *http.Request, b *TemplateDataBuilder, err error) bool {
	if h.forceLogoutOnUnauthorized(w, r, err) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	h.logger().WarnContext(r.Context(), "backend read failed", "path", r.URL.Path, "error", err)
	b.WithError(apperrors.UserMessage(err, loadFailedMessage))
	return false
}

// handleResult applies the 401 rule to an action outcome.
func (h *UIHandlers) handleResult(w http.ResponseWriter, r *http.Request, res service.Result) bool {
	return !res.OK && h.forceLogoutOnUnauthorized(w, r, res.Err)
}

// forceLogoutOnUnauthorized signs the browser out after the backend rejected
// its token and sends it to the login page.
func (h *UIHandlers) forceLogoutOnUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apperrors.IsUnauthorized(err) {
		return false
	}
	if store, ok := SessionStoreFromContext(r.Context()); ok {
		store.ForceLogout(r.Context(), token(r), err)
		h.forget(store.ID())
	}
	redirect(w, r, access.LoginPath)
	return true
}

func (h *UIHandlers) forget(sid string) {
	if h.Donor != nil {
		h.Donor.Forget(sid)
	}
	if h.Admin != nil {
		h.Admin.Forget(sid)
	}
}

// token is the access token RequireRole authorized for this request.
func token(r *http.Request) string {
	return SessionFromContext(r.Context()).Token
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// safeReturnPath extracts a same-origin path from the Referer so plain form
// posts can return where they came from.
func safeReturnPath(r *http.Request) string {
	raw := r.Header.Get("Referer")
	if raw == "" {
		return access.LandingPath
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return access.LandingPath
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return access.LandingPath
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
