package config

import (
	"strings"
	"time"
)

// APIConfig configures the REST backend client.
type APIConfig struct {
	// BaseURL is the backend root, including the /api prefix.
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000/api"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`

	// ErrorMessageExpr and ErrorFieldsExpr are JMESPath expressions evaluated
	// against error response bodies.
	ErrorMessageExpr string `env:"ERROR_MESSAGE_EXPR" envDefault:"error"`
	ErrorFieldsExpr  string `env:"ERROR_FIELDS_EXPR"  envDefault:"details"`

	UserAgent string `env:"USER_AGENT" envDefault:"bloodconnect-web"`
}

// Sanitize trims values and restores defaults for blanks.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000/api"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ErrorMessageExpr = strings.TrimSpace(c.ErrorMessageExpr); c.ErrorMessageExpr == "" {
		c.ErrorMessageExpr = "error"
	}
	if c.ErrorFieldsExpr = strings.TrimSpace(c.ErrorFieldsExpr); c.ErrorFieldsExpr == "" {
		c.ErrorFieldsExpr = "details"
	}
}
