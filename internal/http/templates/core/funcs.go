// Package core provides template helpers used across every page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/http/uiutil"
)

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":   deps.ContentTemplateFor,
		"friendlyTime":  friendlyTime,
		"timeAgo":       func(t time.Time) string { return uiutil.FriendlyRelativeTime(t, now()) },
		"formatDate":    uiutil.FormatDate,
		"add":           func(a, b int) int { return a + b },
		"contains":      strings.Contains,
		"formatNumber":  FormatNumber,
		"percent":       func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
		"urgencyClass":  UrgencyClass,
		"statusClass":   StatusClass,
		"truncateText":  uiutil.TruncateWithEllipsis,
		"fieldError":    fieldError,
		"bloodGroups":   model.BloodGroups,
		"genders":       model.Genders,
		"urgencyLevels": model.UrgencyLevels,
		"dict":          dict,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

func friendlyTime(ts any) string {
	switch v := ts.(type) {
	case time.Time:
		return uiutil.FormatFriendlyDateTime(v)
	case *time.Time:
		if v != nil {
			return uiutil.FormatFriendlyDateTime(*v)
		}
	}
	return ""
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	prefix := len(s) % 3
	if prefix == 0 {
		prefix = 3
	}
	b.WriteString(s[:prefix])
	for i := prefix; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// UrgencyClass maps an urgency level to its badge class.
func UrgencyClass(u model.UrgencyLevel) string {
	switch u {
	case model.UrgencyCritical:
		return "badge-danger"
	case model.UrgencyHigh:
		return "badge-warning"
	case model.UrgencyMedium:
		return "badge-info"
	case model.UrgencyLow:
		return "badge-secondary"
	default:
		return "badge-light"
	}
}

// StatusClass maps a request status to its badge class.
func StatusClass(s model.RequestStatus) string {
	switch s {
	case model.RequestApproved:
		return "badge-success"
	case model.RequestRejected:
		return "badge-danger"
	case model.RequestCompleted:
		return "badge-secondary"
	case model.RequestPending:
		return "badge-warning"
	default:
		return "badge-light"
	}
}

func fieldError(errs map[string]string, name string) string {
	return errs[name]
}

// dict builds a map from alternating keys and values so partials can take
// several named arguments.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
