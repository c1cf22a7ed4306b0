package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_DefinesEveryPage(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	for page, name := range contentTemplates {
		assert.NotNil(t, tr.templates().Lookup(name), "page %s has no %s template", page, name)
	}
	for _, name := range []string{"layout", "error-layout", "chat-widget", "flash", "tabs"} {
		assert.NotNil(t, tr.templates().Lookup(name), name)
	}
}

func TestContentTemplateFor_FallsBackToLanding(t *testing.T) {
	assert.Equal(t, "donor-history-content", ContentTemplateFor(PageDonorHistory))
	assert.Equal(t, "landing-content", ContentTemplateFor("missing"))
}

func TestTemplateRenderer_RejectsBrokenTemplates(t *testing.T) {
	fsys := fstest.MapFS{"layout.tmpl": {Data: []byte(`{{define "layout"}}{{.Title}{{end}}`)}}
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.Error(t, err)

	_, err = NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestTemplateRenderer_RenderPartialEscapesTitles(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.tmpl":      {Data: []byte(`{{define "layout"}}full{{end}}`)},
		"pages/login.tmpl": {Data: []byte(`{{define "login-content"}}<form>{{.Username}}</form>{{end}}`)},
		"partials/x.tmpl":  {Data: []byte(`{{define "x"}}{{end}}`)},
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = tr.RenderPartial(rec, map[string]any{
		"Title":       "<Login>",
		"PageTitle":   "Sign & go",
		"CurrentPage": PageLogin,
		"Username":    "<b>asha</b>",
	})
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>&lt;Login&gt;</title>")
	assert.Contains(t, body, `hx-swap-oob="outerHTML">Sign &amp; go</h1>`)
	assert.Contains(t, body, "&lt;b&gt;asha&lt;/b&gt;")
}

func TestTemplateRenderer_RenderErrorSetsStatus(t *testing.T) {
	fsys := fstest.MapFS{
		"error.tmpl":      {Data: []byte(`{{define "error-layout"}}oops: {{.ErrorMessage}}{{end}}`)},
		"pages/p.tmpl":    {Data: []byte(`{{define "p"}}{{end}}`)},
		"partials/q.tmpl": {Data: []byte(`{{define "q"}}{{end}}`)},
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, tr.RenderError(rec, http.StatusBadRequest, map[string]any{"ErrorMessage": "bad"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "oops: bad", rec.Body.String())
}
