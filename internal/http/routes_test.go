package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	require.Error(t, err)
}

func TestRouter_Healthz(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/healthz"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = app.do(request{method: http.MethodHead, path: "/healthz"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRouter_StaticAssetsAreCached(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/static/css/app.css"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
}

func TestRouter_UnknownPathRedirectsHome(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/nope", "/donor-dashboard/unknown", "/admin"} {
		t.Run(path, func(t *testing.T) {
			rec := app.do(request{path: path})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
		})
	}
}

func TestRouter_MetricsMountedWhenConfigured(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	app := newTestApp(t, func(s *RouterServices) {
		s.Metrics = rec
		s.MetricsHandler = metrics.Handler(reg)
	})

	sid := app.signIn(domainauth.RoleDonor)
	require.Equal(t, http.StatusOK, app.do(request{path: "/donor-dashboard", session: sid}).Code)

	res := app.do(request{path: DefaultMetricsPath})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "bloodconnect_")
}

func TestRouter_IssuesSessionCookie(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/"})
	require.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(rec)
	require.NotNil(t, c)
	_, err := uuid.Parse(c.Value)
	require.NoError(t, err)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	// A valid cookie is kept as is.
	rec = app.do(request{path: "/", session: c.Value})
	assert.Nil(t, sessionCookie(rec))
}

func TestRouter_MalformedSessionCookieIsReplaced(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/", session: "not-a-uuid"})
	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.NotEqual(t, "not-a-uuid", c.Value)
}

func TestRouter_GuestsAreSentToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/donor-dashboard", "/staff-dashboard/requests", "/admin-dashboard/analytics"} {
		t.Run(path, func(t *testing.T) {
			rec := app.do(request{path: path, session: uuid.NewString()})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
}

func TestRouter_GuestRedirectForHTMX(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/donor-dashboard", session: uuid.NewString(), htmx: true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
}

func TestRouter_JSONClientsGetStatusCodes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/donor-dashboard", session: uuid.NewString(), accept: "application/json"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","redirect":"/login"}`, rec.Body.String())

	sid := app.signIn(domainauth.RoleDonor)
	rec = app.do(request{path: "/admin-dashboard", session: sid, accept: "application/json"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CrossRoleAccessRedirectsHome(t *testing.T) {
	app := newTestApp(t)

	dashboards := map[domainauth.Role]string{
		domainauth.RoleDonor:            "/donor-dashboard",
		domainauth.RoleHospitalStaff:    "/staff-dashboard",
		domainauth.RoleBloodBankManager: "/admin-dashboard",
	}
	for role := range dashboards {
		sid := app.signIn(role)
		for required, path := range dashboards {
			rec := app.do(request{path: path, session: sid})
			if required == role {
				assert.Equal(t, http.StatusOK, rec.Code, "%s on %s", role, path)
				continue
			}
			assert.Equal(t, http.StatusSeeOther, rec.Code, "%s on %s", role, path)
			assert.Equal(t, "/", rec.Header().Get("Location"), "%s on %s", role, path)
		}
	}
}

func TestRouter_PendingWhileRestoring(t *testing.T) {
	release := make(chan struct{})
	app := newTestApp(t, func(s *RouterServices) { s.RestoreWait = 10 * time.Millisecond })
	t.Cleanup(func() { close(release) })
	app.auth.ProfileFunc = func(ctx context.Context, _ string) (map[string]any, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return map[string]any{}, nil
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	body := rec.Body.String()
	assert.Contains(t, body, `hx-get="/donor-dashboard"`)
	assert.Contains(t, body, `load delay:1s`)
	assert.NotContains(t, body, "Donor Dashboard")

	rec = app.do(request{path: "/donor-dashboard", session: sid, accept: "application/json"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRouter_LoginLandsOnRoleDashboard(t *testing.T) {
	app := newTestApp(t)
	app.auth.LoginFunc = func(_ context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{
			Access:     "access",
			Refresh:    "refresh",
			UserType:   domainauth.RoleHospitalStaff,
			IsVerified: true,
		}, nil
	}
	sid := uuid.NewString()

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/login",
		session: sid,
		form:    url.Values{"username": {"drmehta"}, "password": {"s3cret-pass"}},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/staff-dashboard", rec.Header().Get("Location"))
	c := sessionCookie(rec)
	require.NotNil(t, c)
	sid = c.Value
	assert.True(t, app.storage.Has(sid))

	rec = app.do(request{path: "/staff-dashboard", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hospital Staff Dashboard")

	// Signed-in users skip the login form.
	rec = app.do(request{path: "/login", session: sid})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/staff-dashboard", rec.Header().Get("Location"))
}

func TestRouter_LoginRotatesSessionID(t *testing.T) {
	app := newTestApp(t)
	app.auth.LoginFunc = func(_ context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{
			Access:     "access",
			Refresh:    "refresh",
			UserType:   domainauth.RoleDonor,
			IsVerified: true,
		}, nil
	}
	planted := uuid.NewString()
	require.Equal(t, http.StatusOK, app.do(request{path: "/login", session: planted}).Code)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/login",
		session: planted,
		form:    url.Values{"username": {"asha"}, "password": {"s3cret-pass"}},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	c := sessionCookie(rec)
	require.NotNil(t, c, "a successful login must set a new session cookie")
	assert.NotEqual(t, planted, c.Value)
	assert.True(t, c.HttpOnly)
	_, err := uuid.Parse(c.Value)
	require.NoError(t, err)

	assert.True(t, app.storage.Has(c.Value))
	assert.False(t, app.storage.Has(planted))
	assert.Contains(t, app.donor.forgotten, planted)
	assert.Contains(t, app.admin.forgotten, planted)

	rec = app.do(request{path: "/donor-dashboard", session: planted})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = app.do(request{path: "/donor-dashboard", session: c.Value})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_FailedLoginKeepsSessionID(t *testing.T) {
	app := newTestApp(t)
	sid := uuid.NewString()

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/login",
		session: sid,
		form:    url.Values{"username": {"asha"}, "password": {"wrong-password"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookie(rec))
	assert.Empty(t, app.donor.forgotten)
}

func TestRouter_LoginFailureKeepsUsername(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/login",
		session: uuid.NewString(),
		form:    url.Values{"username": {"drmehta"}, "password": {"wrong-password"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="drmehta"`)
	assert.Contains(t, body, "Invalid credentials")
}

func TestRouter_LoginValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{method: http.MethodPost, path: "/login", session: uuid.NewString(), form: url.Values{}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), invalidFormMessage)
	assert.Zero(t, app.auth.LoginAttempts)
}

func TestRouter_LogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	sid := app.signIn(domainauth.RoleDonor)
	require.Equal(t, http.StatusOK, app.do(request{path: "/donor-dashboard", session: sid}).Code)

	rec := app.do(request{method: http.MethodPost, path: "/logout", session: sid})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.False(t, app.storage.Has(sid))
	assert.Contains(t, app.donor.forgotten, sid)

	rec = app.do(request{path: "/donor-dashboard", session: sid})
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_PostWithoutCSRFIsRejected(t *testing.T) {
	app := newTestApp(t)

	req := request{method: http.MethodPost, path: "/logout", session: uuid.NewString()}
	rec := app.do(req)
	require.NotEqual(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AuthStatus(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{path: "/auth/status", session: uuid.NewString()})
	require.Equal(t, http.StatusOK, rec.Code)
	var guest AuthStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guest))
	assert.False(t, guest.Authenticated)
	assert.Nil(t, guest.User)

	sid := app.signIn(domainauth.RoleBloodBankManager)
	rec = app.do(request{path: "/auth/status", session: sid})
	var signedIn AuthStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signedIn))
	assert.True(t, signedIn.Authenticated)
	assert.False(t, signedIn.Loading)
	require.NotNil(t, signedIn.User)
	assert.Equal(t, "asha", signedIn.User.Username)
}
