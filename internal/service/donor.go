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

const defaultListCacheTTL = 5 * time.Minute

// DonorServiceOptions groups dependencies for DonorService.
type DonorServiceOptions struct {
	API      ports.DonorAPI // Required
	CacheTTL time.Duration  // Optional: lifetime of cached notification lists
	Logger   *slog.Logger   // Optional
}

// DonorService backs the donor dashboard.
type DonorService struct {
	api    ports.DonorAPI
	lists  *cache.Cache
	logger *slog.Logger
}

// NewDonorService constructs a DonorService.
func NewDonorService(opts DonorServiceOptions) (*DonorService, error) {
	if opts.API == nil {
		return nil, errors.New("DonorAPI is required")
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultListCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DonorService{
		api:    opts.API,
		lists:  cache.New(ttl, 2*ttl),
		logger: logger.With("component", "donor_service"),
	}, nil
}

// Overview fetches the profile and donation history in parallel.
func (s *DonorService) Overview(ctx context.Context, token string) (model.DonorOverview, error) {
	var out model.DonorOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.api.DonorProfile(gctx, token)
		if err != nil {
			return fmt.Errorf("donor profile: %w", err)
		}
		out.Profile = p
		return nil
	})
	g.Go(func() error {
		d, err := s.api.DonationHistory(gctx, token)
		if err != nil {
			return fmt.Errorf("donation history: %w", err)
		}
		out.Donations = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.DonorOverview{}, err
	}
	return out, nil
}

// Profile returns the donor's own profile.
func (s *DonorService) Profile(ctx context.Context, token string) (model.DonorProfile, error) {
	return s.api.DonorProfile(ctx, token)
}

// UpdateProfile saves the donor's edits.
func (s *DonorService) UpdateProfile(ctx context.Context, token string, upd model.DonorProfileUpdate) (model.DonorProfile, Result) {
	p, err := s.api.UpdateDonorProfile(ctx, token, upd)
	if err != nil {
		s.logger.InfoContext(ctx, "profile update rejected", "error", err)
		return model.DonorProfile{}, Failed(err, "Failed to update profile")
	}
	return p, Succeeded("Profile updated successfully!")
}

// History returns the donation history.
func (s *DonorService) History(ctx context.Context, token string) ([]model.Donation, error) {
	return s.api.DonationHistory(ctx, token)
}

// Notifications returns the visible notification list for a browser session,
// fetching it when nothing is cached for this token or refresh is set.
func (s *DonorService) Notifications(ctx context.Context, sid, token string, refresh bool) ([]model.Notification, error) {
	if !refresh {
		if list, ok := cachedList[model.Notification](s.lists, sid, token); ok {
			return list, nil
		}
	}
	list, err := s.api.DonorNotifications(ctx, token)
	if err != nil {
		return nil, err
	}
	storeList(s.lists, sid, token, list)
	return list, nil
}

// Respond sends the donor's answer. On success exactly that notification is
// dropped from the cached list. The returned list is what should be shown.
func (s *DonorService) Respond(
	ctx context.Context,
	sid, token string,
	id int64,
	resp model.NotificationResponse,
) ([]model.Notification, Result) {
	current, cached := cachedList[model.Notification](s.lists, sid, token)

	if err := s.api.RespondToNotification(ctx, token, id, resp); err != nil {
		s.logger.InfoContext(ctx, "notification response rejected", "id", id, "response", resp, "error", err)
		return current, Failed(err, "Failed to respond to notification")
	}

	if !cached {
		fresh, err := s.api.DonorNotifications(ctx, token)
		if err != nil {
			s.logger.WarnContext(ctx, "reload notifications", "error", err)
		}
		current = fresh
	}
	next := model.WithoutNotification(current, id)
	storeList(s.lists, sid, token, next)

	msg := "Thank you! You have accepted this request."
	if resp == model.ResponseDecline {
		msg = "You have declined this request."
	}
	return next, Succeeded(msg)
}

// Forget drops cached lists for a browser session.
func (s *DonorService) Forget(sid string) {
	s.lists.Delete(sid)
}
