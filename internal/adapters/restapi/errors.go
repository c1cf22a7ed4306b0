package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	jmespath "github.com/jmespath-community/go-jmespath"
)

// Default expressions for the canonical error body {"error": "...", "details": {...}}.
const (
	DefaultMessageExpr = "error"
	DefaultFieldsExpr  = "details"
)

// APIError is a non-2xx response from the backend after canonical decoding.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// FieldErrors exposes the per-field messages to apperrors.FieldErrors.
func (e *APIError) FieldErrors() map[string]string { return e.Fields }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type searcher interface {
	Search(data any) (any, error)
}

// ErrorDecoder extracts the message and field details from error bodies with two
// JMESPath expressions compiled once at startup.
type ErrorDecoder struct {
	message searcher
	fields  searcher
}

// NewErrorDecoder compiles the expressions. Empty expressions fall back to the defaults.
func NewErrorDecoder(messageExpr, fieldsExpr string) (*ErrorDecoder, error) {
	if strings.TrimSpace(messageExpr) == "" {
		messageExpr = DefaultMessageExpr
	}
	if strings.TrimSpace(fieldsExpr) == "" {
		fieldsExpr = DefaultFieldsExpr
	}
	msg, err := jmespath.Compile(messageExpr)
	if err != nil {
		return nil, fmt.Errorf("compile error message expression %q: %w", messageExpr, err)
	}
	fields, err := jmespath.Compile(fieldsExpr)
	if err != nil {
		return nil, fmt.Errorf("compile error fields expression %q: %w", fieldsExpr, err)
	}
	return &ErrorDecoder{message: msg, fields: fields}, nil
}

// Decode turns a status and raw body into an application error whose message is
// safe to show to the user.
func (d *ErrorDecoder) Decode(status int, body []byte) error {
	var data any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			data = nil
		}
	}

	apiErr := &APIError{Status: status}
	if data != nil {
		if v, err := d.message.Search(data); err == nil {
			apiErr.Message = flattenMessage(v)
		}
		if v, err := d.fields.Search(data); err == nil {
			apiErr.Fields = flattenFields(v)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("Unexpected status %d", status)
	}

	return apperrors.Wrap(apiErr, codeForStatus(status), apiErr.Message)
}

func codeForStatus(status int) apperrors.ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.ErrCodeUnauthorized
	case status == http.StatusForbidden:
		return apperrors.ErrCodeForbidden
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.ErrCodeValidation
	case status == http.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case status == http.StatusConflict:
		return apperrors.ErrCodeConflict
	case status >= 500:
		return apperrors.ErrCodeUnavailable
	default:
		return apperrors.ErrCodeInternal
	}
}

func flattenMessage(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flattenMessage(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func flattenFields(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, raw := range m {
		if s := flattenMessage(raw); s != "" {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
