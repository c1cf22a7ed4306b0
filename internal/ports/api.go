package ports

import (
	"context"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
)

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Access     string
	Refresh    string
	UserType   domainauth.Role
	IsVerified bool
}

// AuthAPI covers the unauthenticated auth endpoints plus the self-profile check.
type AuthAPI interface {
	Login(ctx context.Context, creds domainauth.Credentials) (LoginResult, error)
	RegisterDonor(ctx context.Context, reg model.DonorRegistration) error
	RegisterHospital(ctx context.Context, reg model.HospitalRegistration) error
	// Profile returns the raw profile object so any field can be merged into the cached user.
	Profile(ctx context.Context, token string) (map[string]any, error)
}

// DonorAPI covers donor-only endpoints.
type DonorAPI interface {
	DonorProfile(ctx context.Context, token string) (model.DonorProfile, error)
	UpdateDonorProfile(ctx context.Context, token string, upd model.DonorProfileUpdate) (model.DonorProfile, error)
	DonationHistory(ctx context.Context, token string) ([]model.Donation, error)
	DonorNotifications(ctx context.Context, token string) ([]model.Notification, error)
	RespondToNotification(ctx context.Context, token string, id int64, resp model.NotificationResponse) error
}

// StaffAPI covers hospital-staff endpoints.
type StaffAPI interface {
	HospitalProfile(ctx context.Context, token string) (model.HospitalProfile, error)
	CreateBloodRequest(ctx context.Context, token string, req model.CreateBloodRequest) (model.BloodRequest, error)
	HospitalRequests(ctx context.Context, token string) ([]model.BloodRequest, error)
	AvailableDonors(ctx context.Context, token string, search model.DonorSearch) ([]model.AvailableDonor, error)
}

// AdminAPI covers blood-bank-manager endpoints.
type AdminAPI interface {
	PendingRequests(ctx context.Context, token string) ([]model.BloodRequest, error)
	ApproveRequest(ctx context.Context, token string, id int64) error
	RejectRequest(ctx context.Context, token string, id int64) error
}

// PlatformStatsSource supplies analytics figures for the admin dashboard.
type PlatformStatsSource interface {
	Stats(ctx context.Context) (model.PlatformStats, error)
	RecentActivity(ctx context.Context) ([]model.Activity, error)
}
