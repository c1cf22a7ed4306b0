// Package mocks provides mock implementations of the service ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the storage and REST API ports.
// Lightweight hand-written doubles live in the session subpackage.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	storage := mocks.NewMockSessionStorage(ctrl)
//	storage.EXPECT().Clear(gomock.Any(), "sid").Return(nil)
package mocks

// Load, Save, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_storage_mock.go github.com/bloodconnect/bloodconnect-web/internal/ports SessionStorage

// Login, RegisterDonor, RegisterHospital, Profile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/bloodconnect/bloodconnect-web/internal/ports AuthAPI

// DonorProfile, UpdateDonorProfile, DonationHistory, DonorNotifications, RespondToNotification
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=donor_api_mock.go github.com/bloodconnect/bloodconnect-web/internal/ports DonorAPI

// HospitalProfile, CreateBloodRequest, HospitalRequests, AvailableDonors
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=staff_api_mock.go github.com/bloodconnect/bloodconnect-web/internal/ports StaffAPI

// PendingRequests, ApproveRequest, RejectRequest
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=admin_api_mock.go github.com/bloodconnect/bloodconnect-web/internal/ports AdminAPI
