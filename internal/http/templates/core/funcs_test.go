package core

import (
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
)

func TestFormatNumber(t *testing.T) {
	tests := map[any]string{
		0:              "0",
		8:              "8",
		1250:           "1,250",
		int64(1000000): "1,000,000",
		-320:           "-320",
		-45000:         "-45,000",
		"n/a":          "n/a",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%v)", in)
	}
}

func TestBadgeClasses(t *testing.T) {
	assert.Equal(t, "badge-danger", UrgencyClass(model.UrgencyCritical))
	assert.Equal(t, "badge-warning", UrgencyClass(model.UrgencyHigh))
	assert.Equal(t, "badge-light", UrgencyClass("unknown"))
	assert.Equal(t, "badge-success", StatusClass(model.RequestApproved))
	assert.Equal(t, "badge-warning", StatusClass(model.RequestPending))
	assert.Equal(t, "badge-light", StatusClass(""))
}

func TestFuncs_RenderSectionAndDict(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
		Now:                func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
	})

	var err error
	tmpl, err = template.New("root").Funcs(funcs).Parse(
		`{{define "stats-content"}}<b>{{.Label}}: {{formatNumber .Value}}</b>{{end}}` +
			`{{define "page"}}{{renderSection "stats" (dict "Label" "Donors" "Value" 1250)}}{{end}}`,
	)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tmpl.ExecuteTemplate(&out, "page", nil))
	assert.Equal(t, "<b>Donors: 1,250</b>", out.String())
}

func TestDict_RejectsOddArguments(t *testing.T) {
	_, err := dict("only-key")
	require.Error(t, err)
	_, err = dict(1, "value")
	require.Error(t, err)
}
