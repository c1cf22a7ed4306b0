// Package reaper runs the expired-session purge loop.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bloodconnect/bloodconnect-web/config"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

// Runner provides a simple adapter to run the reaper loop.
// It constructs the session reaper and runs the purge loop.
type Runner struct {
	reaper *service.SessionReaper
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Purger  ports.SessionPurger
	Config  config.SessionConfig
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	reaper, err := service.NewSessionReaper(service.SessionReaperOptions{
		Purger:   opts.Purger,
		Interval: opts.Config.PurgeInterval,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire session reaper: %w", err)
	}

	return &Runner{reaper: reaper, logger: opts.Logger}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.Purger == nil {
		return errors.New("session storage does not support purging")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reaper runner", "backend_purge", true)
	return r.reaper.Run(ctx)
}
