package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

const defaultPurgeInterval = 15 * time.Minute

// SessionReaperOptions groups dependencies for SessionReaper.
type SessionReaperOptions struct {
	Purger   ports.SessionPurger // Required
	Interval time.Duration       // Optional: defaults to 15m
	Logger   *slog.Logger        // Optional
	Metrics  *metrics.Recorder   // Optional
}

// SessionReaper periodically deletes expired durable sessions from storages
// that cannot expire entries on their own.
type SessionReaper struct {
	purger   ports.SessionPurger
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewSessionReaper constructs a SessionReaper.
func NewSessionReaper(opts SessionReaperOptions) (*SessionReaper, error) {
	if opts.Purger == nil {
		return nil, errors.New("SessionPurger is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionReaper{
		purger:   opts.Purger,
		interval: interval,
		logger:   logger.With("component", "session_reaper"),
		metrics:  opts.Metrics,
	}, nil
}

// Run purges once after a short jitter and then every interval until ctx is
// cancelled. Returns nil on graceful shutdown (context.Canceled).
func (r *SessionReaper) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.PurgeOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce runs a single purge and records its outcome.
func (r *SessionReaper) PurgeOnce(ctx context.Context) int64 {
	if ctx.Err() != nil {
		return 0
	}
	n, err := r.purger.PurgeExpired(ctx)
	if isContextCancellation(err) {
		return n
	}
	r.metrics.SessionsPurged(n, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "purge expired sessions failed", "error", err)
		return n
	}
	if n > 0 {
		r.logger.InfoContext(ctx, "purged expired sessions", "count", n)
	}
	return n
}

// waitWithJitter delays up to 10% of the interval so replicas do not purge in lockstep.
func (r *SessionReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	t := time.NewTimer(jitter)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
