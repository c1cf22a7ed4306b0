package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(t *testing.T) http.Handler {
	t.Helper()
	return CSRFProtection(CSRFConfig{CookieDomain: "bloodconnect.test"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(GetCSRFToken(r)))
		}),
	)
}

func csrfCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

func issueCSRFToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	c := csrfCookieFrom(t, rec)
	require.NotNil(t, c, "csrf cookie should be issued on first visit")
	return c.Value
}

func TestCSRFProtection_IssuesCookieAndExposesToken(t *testing.T) {
	h := csrfHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "https://bloodconnect.test/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := csrfCookieFrom(t, rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, rec.Body.String(), "token in context must match the cookie")
	assert.True(t, c.Secure)
	assert.False(t, c.HttpOnly, "htmx config reads the token")
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "bloodconnect.test", c.Domain)
	assert.Equal(t, "/", c.Path)
}

func TestCSRFProtection_SecureBehindTLSProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://bloodconnect.test/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	csrfHandler(t).ServeHTTP(rec, req)

	c := csrfCookieFrom(t, rec)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
}

func TestCSRFProtection_ExistingCookieIsReused(t *testing.T) {
	h := csrfHandler(t)
	token := issueCSRFToken(t, h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Nil(t, csrfCookieFrom(t, rec))
	assert.Equal(t, token, rec.Body.String())
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	h := csrfHandler(t)
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/donor-dashboard", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	h := csrfHandler(t)
	token := issueCSRFToken(t, h)

	form := func(v string) *strings.Reader {
		return strings.NewReader(url.Values{DefaultCSRFCookieName: {v}, "username": {"asha"}}.Encode())
	}

	tests := []struct {
		name    string
		build   func() *http.Request
		allowed bool
	}{
		{
			name: "no cookie and no token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/login", nil)
			},
		},
		{
			name: "header token without the cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", nil)
				req.Header.Set(DefaultCSRFHeaderName, token)
				return req
			},
		},
		{
			name: "htmx header matches cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/chat/open", nil)
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				req.Header.Set(DefaultCSRFHeaderName, token)
				return req
			},
			allowed: true,
		},
		{
			name: "header mismatch",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/logout", nil)
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				req.Header.Set(DefaultCSRFHeaderName, "forged")
				return req
			},
		},
		{
			name: "form field matches cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", form(token))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return req
			},
			allowed: true,
		},
		{
			name: "form field mismatch",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", form("forged"))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return req
			},
		},
		{
			name: "json body without header",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"asha"}`))
				req.Header.Set("Content-Type", "application/json")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return req
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.build())
			if tt.allowed {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
