package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where durable session state lives.
type SessionBackend string

const (
	SessionBackendRedis    SessionBackend = "redis"
	SessionBackendPostgres SessionBackend = "postgres"
	SessionBackendMemory   SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "postgres", "memory":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: redis, postgres, memory)", v)
	}
}

// SessionConfig controls browser sessions.
type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND" envDefault:"redis"`

	// TTL is the lifetime of durable session entries. It is further bounded
	// by the access token's own expiry.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// RestoreTimeout bounds the background validation of a stored session.
	RestoreTimeout time.Duration `env:"RESTORE_TIMEOUT" envDefault:"10s"`

	// RestoreWait is how long a gated request waits for a restore before the
	// pending page is shown.
	RestoreWait time.Duration `env:"RESTORE_WAIT" envDefault:"1s"`

	// CacheTTL is how long an idle session stays in process memory.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30m"`

	// PurgeInterval is how often expired durable sessions are deleted
	// (postgres and memory backends).
	PurgeInterval time.Duration `env:"PURGE_INTERVAL" envDefault:"15m"`

	CookieName string `env:"COOKIE_NAME" envDefault:"session_id"`
	KeyPrefix  string `env:"KEY_PREFIX"  envDefault:"bloodconnect:session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionBackendRedis
	}
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.RestoreTimeout <= 0 {
		c.RestoreTimeout = 10 * time.Second
	}
	if c.RestoreWait < 0 {
		c.RestoreWait = 0
	}
	if c.RestoreWait > c.RestoreTimeout {
		c.RestoreWait = c.RestoreTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 30 * time.Minute
	}
	if c.PurgeInterval < time.Minute {
		c.PurgeInterval = time.Minute
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = "session_id"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "bloodconnect:session:"
	}
}
