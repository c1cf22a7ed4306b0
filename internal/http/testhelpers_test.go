package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	sessiondoubles "github.com/bloodconnect/bloodconnect-web/internal/mocks/session"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
	"github.com/bloodconnect/bloodconnect-web/internal/testutil"
)

// testCSRFToken is sent as both cookie and header on unsafe test requests.
const testCSRFToken = "test-csrf-token"

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Now:        testutil.FixedTimeFunc(testutil.TestTime()),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates checks if templates are available and skips the test if not.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// fakeRegistrar records registrations and answers with a fixed Result.
type fakeRegistrar struct {
	donorResult    *service.Result
	hospitalResult *service.Result
	donors         []model.DonorRegistration
	hospitals      []model.HospitalRegistration
}

func (f *fakeRegistrar) RegisterDonor(_ context.Context, reg model.DonorRegistration) service.Result {
	f.donors = append(f.donors, reg)
	if f.donorResult == nil {
		return service.Succeeded(model.DonorRegisteredMessage)
	}
	return *f.donorResult
}

func (f *fakeRegistrar) RegisterHospital(_ context.Context, reg model.HospitalRegistration) service.Result {
	f.hospitals = append(f.hospitals, reg)
	if f.hospitalResult == nil {
		return service.Succeeded(model.HospitalRegisteredMessage)
	}
	return *f.hospitalResult
}

// fakeDonor is a DonorDashboard driven by optional function fields.
type fakeDonor struct {
	OverviewFunc      func(ctx context.Context, token string) (model.DonorOverview, error)
	ProfileFunc       func(ctx context.Context, token string) (model.DonorProfile, error)
	UpdateFunc        func(ctx context.Context, token string, upd model.DonorProfileUpdate) (model.DonorProfile, service.Result)
	HistoryFunc       func(ctx context.Context, token string) ([]model.Donation, error)
	NotificationsFunc func(ctx context.Context, sid, token string, refresh bool) ([]model.Notification, error)
	RespondFunc       func(ctx context.Context, sid, token string, id int64, resp model.NotificationResponse) ([]model.Notification, service.Result)

	forgotten []string
}

func (f *fakeDonor) Overview(ctx context.Context, token string) (model.DonorOverview, error) {
	if f.OverviewFunc != nil {
		return f.OverviewFunc(ctx, token)
	}
	return model.DonorOverview{}, nil
}

func (f *fakeDonor) Profile(ctx context.Context, token string) (model.DonorProfile, error) {
	if f.ProfileFunc != nil {
		return f.ProfileFunc(ctx, token)
	}
	return model.DonorProfile{}, nil
}

func (f *fakeDonor) UpdateProfile(
	ctx context.Context,
	token string,
	upd model.DonorProfileUpdate,
) (model.DonorProfile, service.Result) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, token, upd)
	}
	return upd.Apply(model.DonorProfile{}), service.Succeeded("Profile updated successfully!")
}

func (f *fakeDonor) History(ctx context.Context, token string) ([]model.Donation, error) {
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, token)
	}
	return nil, nil
}

func (f *fakeDonor) Notifications(ctx context.Context, sid, token string, refresh bool) ([]model.Notification, error) {
	if f.NotificationsFunc != nil {
		return f.NotificationsFunc(ctx, sid, token, refresh)
	}
	return nil, nil
}

func (f *fakeDonor) Respond(
	ctx context.Context,
	sid, token string,
	id int64,
	resp model.NotificationResponse,
) ([]model.Notification, service.Result) {
	if f.RespondFunc != nil {
		return f.RespondFunc(ctx, sid, token, id, resp)
	}
	return nil, service.Succeeded("Response recorded.")
}

func (f *fakeDonor) Forget(sid string) { f.forgotten = append(f.forgotten, sid) }

// fakeStaff is a StaffDashboard driven by optional function fields.
type fakeStaff struct {
	HospitalFunc func(ctx context.Context, token string) (model.HospitalProfile, error)
	RequestsFunc func(ctx context.Context, token string) ([]model.BloodRequest, error)
	SearchFunc   func(ctx context.Context, token string, search model.DonorSearch) ([]model.AvailableDonor, error)
	CreateFunc   func(ctx context.Context, token string, form model.BloodRequestForm) (model.BloodRequestForm, service.Result)
}

func (f *fakeStaff) HospitalProfile(ctx context.Context, token string) (model.HospitalProfile, error) {
	if f.HospitalFunc != nil {
		return f.HospitalFunc(ctx, token)
	}
	return model.HospitalProfile{}, nil
}

func (f *fakeStaff) Requests(ctx context.Context, token string) ([]model.BloodRequest, error) {
	if f.RequestsFunc != nil {
		return f.RequestsFunc(ctx, token)
	}
	return nil, nil
}

func (f *fakeStaff) SearchDonors(
	ctx context.Context,
	token string,
	search model.DonorSearch,
) ([]model.AvailableDonor, error) {
	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, token, search)
	}
	return nil, nil
}

func (f *fakeStaff) CreateRequest(
	ctx context.Context,
	token string,
	form model.BloodRequestForm,
) (model.BloodRequestForm, service.Result) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, token, form)
	}
	return model.NewBloodRequestForm(), service.Succeeded("Blood request created successfully!")
}

// fakeAdmin is an AdminDashboard driven by optional function fields.
type fakeAdmin struct {
	OverviewFunc  func(ctx context.Context, sid, token string) (model.AdminOverview, error)
	DecideFunc    func(ctx context.Context, sid, token string, id int64, approve bool) ([]model.BloodRequest, service.Result)
	AnalyticsFunc func(ctx context.Context) (model.PlatformStats, []model.Activity, error)

	forgotten []string
}

func (f *fakeAdmin) Overview(ctx context.Context, sid, token string) (model.AdminOverview, error) {
	if f.OverviewFunc != nil {
		return f.OverviewFunc(ctx, sid, token)
	}
	return model.AdminOverview{}, nil
}

func (f *fakeAdmin) Approve(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, service.Result) {
	return f.decide(ctx, sid, token, id, true)
}

func (f *fakeAdmin) Reject(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, service.Result) {
	return f.decide(ctx, sid, token, id, false)
}

func (f *fakeAdmin) decide(
	ctx context.Context,
	sid, token string,
	id int64,
	approve bool,
) ([]model.BloodRequest, service.Result) {
	if f.DecideFunc != nil {
		return f.DecideFunc(ctx, sid, token, id, approve)
	}
	return nil, service.Succeeded("Request updated.")
}

func (f *fakeAdmin) Analytics(ctx context.Context) (model.PlatformStats, []model.Activity, error) {
	if f.AnalyticsFunc != nil {
		return f.AnalyticsFunc(ctx)
	}
	return model.PlatformStats{}, nil, nil
}

func (f *fakeAdmin) Forget(sid string) { f.forgotten = append(f.forgotten, sid) }

// testApp is a fully wired router backed by in-memory session storage and fakes.
type testApp struct {
	t         *testing.T
	handler   http.Handler
	registry  *service.SessionRegistry
	storage   *sessiondoubles.MemoryStorage
	auth      *sessiondoubles.ScriptedAuth
	registrar *fakeRegistrar
	donor     *fakeDonor
	staff     *fakeStaff
	admin     *fakeAdmin
	chat      *service.ChatService
}

func newTestApp(t *testing.T, opts ...func(*RouterServices)) *testApp {
	t.Helper()
	SkipIfNoTemplates(t)

	app := &testApp{
		t:         t,
		storage:   sessiondoubles.NewMemoryStorage(),
		auth:      &sessiondoubles.ScriptedAuth{},
		registrar: &fakeRegistrar{},
		donor:     &fakeDonor{},
		staff:     &fakeStaff{},
		admin:     &fakeAdmin{},
	}
	now := testutil.FixedTimeFunc(testutil.TestTime())

	gw, err := service.NewAuthGateway(service.AuthGatewayOptions{API: app.auth})
	if err != nil {
		t.Fatalf("auth gateway: %v", err)
	}
	app.registry, err = service.NewSessionRegistry(service.SessionRegistryOptions{
		Storage: app.storage,
		Gateway: gw,
		Now:     now,
	})
	if err != nil {
		t.Fatalf("session registry: %v", err)
	}
	t.Cleanup(app.registry.Close)
	app.chat = service.NewChatService(service.ChatServiceOptions{Now: now})

	services := RouterServices{
		Registry:    app.registry,
		Registrar:   app.registrar,
		Donor:       app.donor,
		Staff:       app.staff,
		Admin:       app.admin,
		Chat:        app.chat,
		RestoreWait: 2 * time.Second,
		TemplateFS:  os.DirFS(TemplatePathFromTest),
		StaticFS:    os.DirFS("../../frontend/static"),
		Now:         now,
	}
	for _, opt := range opts {
		opt(&services)
	}
	app.handler, err = NewRouter(services)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return app
}

// signIn seeds durable storage with a valid session for role and returns the
// browser session id to send as the cookie.
func (a *testApp) signIn(role domainauth.Role) string {
	a.t.Helper()
	id := uuid.NewString()
	user, err := json.Marshal(domainauth.UserSummary{
		Username:   "asha",
		UserType:   role,
		IsVerified: true,
	})
	if err != nil {
		a.t.Fatalf("marshal user: %v", err)
	}
	a.storage.Put(id, ports.StoredSession{
		AccessToken:  testutil.AccessToken(a.t, "asha", testutil.TestTime().Add(time.Hour)),
		RefreshToken: "refresh",
		User:         string(user),
	})
	return id
}

// request describes one call against the test app.
type request struct {
	method  string
	path    string
	session string
	form    url.Values
	htmx    bool
	accept  string
	referer string
}

func (a *testApp) do(req request) *httptest.ResponseRecorder {
	a.t.Helper()
	if req.method == "" {
		req.method = http.MethodGet
	}
	var r *http.Request
	if req.form != nil {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	if req.method != http.MethodGet && req.method != http.MethodHead {
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
		r.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	}
	if req.session != "" {
		r.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: req.session})
	}
	if req.htmx {
		r.Header.Set("Hx-Request", "true")
	}
	if req.accept != "" {
		r.Header.Set("Accept", req.accept)
	}
	if req.referer != "" {
		r.Header.Set("Referer", req.referer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, r)
	return rec
}

// sessionCookie returns the session cookie set on rec, if any.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == DefaultSessionCookieName {
			return c
		}
	}
	return nil
}
