package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	API      ports.AdminAPI            // Required
	Stats    ports.PlatformStatsSource // Optional: defaults to StaticStats
	CacheTTL time.Duration             // Optional: lifetime of cached pending lists
	Logger   *slog.Logger              // Optional
}

// AdminService backs the blood bank manager dashboard.
type AdminService struct {
	api     ports.AdminAPI
	stats   ports.PlatformStatsSource
	pending *cache.Cache
	logger  *slog.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(opts AdminServiceOptions) (*AdminService, error) {
	if opts.API == nil {
		return nil, errors.New("AdminAPI is required")
	}
	stats := opts.Stats
	if stats == nil {
		stats = StaticStats{}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultListCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		api:     opts.API,
		stats:   stats,
		pending: cache.New(ttl, 2*ttl),
		logger:  logger.With("component", "admin_service"),
	}, nil
}

// Overview fetches pending requests and platform stats in parallel.
func (s *AdminService) Overview(ctx context.Context, sid, token string) (model.AdminOverview, error) {
	var out model.AdminOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.api.PendingRequests(gctx, token)
		if err != nil {
			return fmt.Errorf("pending requests: %w", err)
		}
		out.Pending = list
		return nil
	})
	g.Go(func() error {
		st, err := s.stats.Stats(gctx)
		if err != nil {
			return fmt.Errorf("platform stats: %w", err)
		}
		out.Stats = st
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.AdminOverview{}, err
	}
	storeList(s.pending, sid, token, out.Pending)
	return out, nil
}

// Pending returns the cached pending list for a browser session, fetching it
// when absent or cached under another token.
func (s *AdminService) Pending(ctx context.Context, sid, token string) ([]model.BloodRequest, error) {
	if list, ok := cachedList[model.BloodRequest](s.pending, sid, token); ok {
		return list, nil
	}
	list, err := s.api.PendingRequests(ctx, token)
	if err != nil {
		return nil, err
	}
	storeList(s.pending, sid, token, list)
	return list, nil
}

// Approve approves a pending request and drops it from the cached list.
func (s *AdminService) Approve(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, Result) {
	return s.decide(ctx, sid, token, id, s.api.ApproveRequest, "Request approved successfully", "Failed to approve request")
}

// Reject rejects a pending request and drops it from the cached list.
func (s *AdminService) Reject(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, Result) {
	return s.decide(ctx, sid, token, id, s.api.RejectRequest, "Request rejected", "Failed to reject request")
}

func (s *AdminService) decide(
	ctx context.Context,
	sid, token string,
	id int64,
	call func(context.Context, string, int64) error,
	okMsg, failMsg string,
) ([]model.BloodRequest, Result) {
	current, _ := s.Pending(ctx, sid, token)
	if err := call(ctx, token, id); err != nil {
		s.logger.InfoContext(ctx, "request decision rejected", "id", id, "error", err)
		return current, Failed(err, failMsg)
	}
	next := model.WithoutRequest(current, id)
	storeList(s.pending, sid, token, next)
	return next, Succeeded(okMsg)
}

// Analytics returns platform stats and the recent activity feed.
func (s *AdminService) Analytics(ctx context.Context) (model.PlatformStats, []model.Activity, error) {
	var (
		stats model.PlatformStats
		feed  []model.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.stats.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		feed, err = s.stats.RecentActivity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.PlatformStats{}, nil, err
	}
	return stats, feed, nil
}

// Forget drops cached lists for a browser session.
func (s *AdminService) Forget(sid string) {
	s.pending.Delete(sid)
}

// StaticStats serves fixed platform figures until the backend exposes an
// analytics endpoint.
type StaticStats struct {
	Now func() time.Time
}

var _ ports.PlatformStatsSource = StaticStats{}

// Stats returns the fixed platform totals.
func (StaticStats) Stats(context.Context) (model.PlatformStats, error) {
	return model.PlatformStats{
		TotalDonors:       1250,
		TotalHospitals:    45,
		TotalRequests:     320,
		FulfilledRequests: 285,
		PendingApprovals:  8,
	}, nil
}

// RecentActivity returns a fixed feed anchored at the current time.
func (s StaticStats) RecentActivity(context.Context) ([]model.Activity, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return []model.Activity{
		{ID: 1, Type: model.ActivityRegistration, Description: "New donor registered: John Doe", Timestamp: now, User: "System"},
		{ID: 2, Type: model.ActivityRequest, Description: "Blood request created by City Hospital", Timestamp: now.Add(-time.Hour), User: "City Hospital"},
		{ID: 3, Type: model.ActivityApproval, Description: "Request #123 approved", Timestamp: now.Add(-2 * time.Hour), User: "Admin"},
	}, nil
}
