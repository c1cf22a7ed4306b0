package httpx

import (
	"net/http"

	"github.com/bloodconnect/bloodconnect-web/internal/http/ui/viewmodel"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

// PageMeta names the page being rendered.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if user := viewmodel.UserFromSession(SessionFromContext(r.Context())); user != nil {
		layout.User = user
		layout.IsAuthenticated = true
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CSRFToken":       layout.CSRFToken,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a builder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithSuccess sets the flash shown above the content.
func (b *TemplateDataBuilder) WithSuccess(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Success"] = msg
	}
	return b
}

// WithResult maps an action outcome onto the flash, error banner and field errors.
func (b *TemplateDataBuilder) WithResult(res service.Result) *TemplateDataBuilder {
	if res.OK {
		return b.WithSuccess(res.Message)
	}
	return b.WithError(res.Message).WithFieldErrors(res.Fields)
}

// WithTabs adds dashboard navigation with the current page marked active.
func (b *TemplateDataBuilder) WithTabs(tabs []viewmodel.Tab) *TemplateDataBuilder {
	page, _ := b.data["CurrentPage"].(string)
	b.data["Tabs"] = viewmodel.Tabs(page, tabs)
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
