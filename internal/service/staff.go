package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

// Create-request outcome messages.
const (
	RequestCreatedMessage = "Blood request submitted successfully! It will be reviewed by the blood bank."
	RequestFailedMessage  = "Failed to create blood request"
)

// StaffServiceOptions groups dependencies for StaffService.
type StaffServiceOptions struct {
	API    ports.StaffAPI // Required
	Logger *slog.Logger   // Optional
}

// StaffService backs the hospital staff dashboard.
type StaffService struct {
	api    ports.StaffAPI
	logger *slog.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(opts StaffServiceOptions) (*StaffService, error) {
	if opts.API == nil {
		return nil, errors.New("StaffAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StaffService{api: opts.API, logger: logger.With("component", "staff_service")}, nil
}

// HospitalProfile returns the staff member's hospital.
func (s *StaffService) HospitalProfile(ctx context.Context, token string) (model.HospitalProfile, error) {
	return s.api.HospitalProfile(ctx, token)
}

// Requests lists the hospital's blood requests.
func (s *StaffService) Requests(ctx context.Context, token string) ([]model.BloodRequest, error) {
	return s.api.HospitalRequests(ctx, token)
}

// SearchDonors lists available donors matching search.
func (s *StaffService) SearchDonors(ctx context.Context, token string, search model.DonorSearch) ([]model.AvailableDonor, error) {
	return s.api.AvailableDonors(ctx, token, search)
}

// CreateRequest submits the form. On success the returned form is reset to its
// defaults; on failure the submitted values come back for redisplay.
func (s *StaffService) CreateRequest(
	ctx context.Context,
	token string,
	form model.BloodRequestForm,
) (model.BloodRequestForm, Result) {
	payload, err := form.Payload()
	if err != nil {
		return form, Failed(err, RequestFailedMessage)
	}
	created, err := s.api.CreateBloodRequest(ctx, token, payload)
	if err != nil {
		s.logger.InfoContext(ctx, "blood request rejected", "error", err)
		return form, Failed(err, RequestFailedMessage)
	}
	s.logger.InfoContext(ctx, "blood request created", "id", created.ID, "blood_group", created.BloodGroup)
	return model.NewBloodRequestForm(), Succeeded(RequestCreatedMessage)
}
