package httpx

import (
	"bytes"
	"errors"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	corefuncs "github.com/bloodconnect/bloodconnect-web/internal/http/templates/core"
)

//nolint:gochecknoglobals // fixed parse set
var templatePatterns = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	fsys    fs.FS
	devMode bool
	logger  *slog.Logger
	now     func() time.Time

	mu sync.RWMutex
	t  *template.Template
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS            // Required
	DevMode    bool             // Re-parse templates on every render
	Logger     *slog.Logger     // Optional
	Now        func() time.Time // Optional: clock for relative times
}

// NewTemplateRenderer parses every template once. In dev mode TemplateFS is
// expected to be the on-disk tree and is re-read on each render.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	r := &TemplateRenderer{
		fsys:    cfg.TemplateFS,
		devMode: cfg.DevMode,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	t, err := r.parse()
	if err != nil {
		r.logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
		Now:                r.now,
	})
	parsed, err := template.New("root").Funcs(funcs).ParseFS(r.fsys, templatePatterns...)
	if err != nil {
		return nil, err
	}
	t = parsed
	return t, nil
}

func (r *TemplateRenderer) templates() *template.Template {
	if r.devMode {
		if t, err := r.parse(); err == nil {
			r.mu.Lock()
			r.t = t
			r.mu.Unlock()
		} else {
			r.logger.Warn("template reload failed, using previous set", slog.Any("error", err))
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, data any) error {
	return r.render(w, "layout", data)
}

// RenderError renders the standalone error page with the given status.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, status int, data any) error {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, "error-layout", data); err != nil {
		r.logTemplateError("error-layout", err)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return r.write(w, "error-layout", &buf)
}

// RenderPartial writes a <title> for htmx, an out-of-band header title, and
// the page's content template.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, data map[string]any) error {
	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	page, _ := data["CurrentPage"].(string)

	var buf bytes.Buffer
	buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)
	if err := r.templates().ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
		r.logTemplateError(ContentTemplateFor(page), err)
		return err
	}
	return r.write(w, page, &buf)
}

// RenderFragment renders one named template, e.g. the chat widget.
func (r *TemplateRenderer) RenderFragment(w http.ResponseWriter, name string, data any) error {
	return r.render(w, name, data)
}

func (r *TemplateRenderer) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, name, data); err != nil {
		r.logTemplateError(name, err)
		return err
	}
	return r.write(w, name, &buf)
}

func (r *TemplateRenderer) write(w http.ResponseWriter, name string, buf *bytes.Buffer) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.String("template", name), slog.Any("error", err))
		return err
	}
	return nil
}

func (r *TemplateRenderer) logTemplateError(name string, err error) {
	r.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
}
