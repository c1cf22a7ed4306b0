package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

// AuthGatewayOptions groups dependencies for AuthGateway.
type AuthGatewayOptions struct {
	API    ports.AuthAPI // Required
	Logger *slog.Logger  // Optional
}

// AuthGateway wraps the unauthenticated auth endpoints and normalizes their
// outcomes into Result values.
type AuthGateway struct {
	api    ports.AuthAPI
	logger *slog.Logger
}

// NewAuthGateway constructs an AuthGateway.
func NewAuthGateway(opts AuthGatewayOptions) (*AuthGateway, error) {
	if opts.API == nil {
		return nil, errors.New("AuthAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthGateway{api: opts.API, logger: logger.With("component", "auth_gateway")}, nil
}

// LoginOutcome pairs a Result with the tokens and user of a successful login.
type LoginOutcome struct {
	Result
	Tokens domainauth.Tokens
	User   domainauth.UserSummary
}

// Login exchanges credentials for tokens. The username is taken from the
// submitted credentials since the backend does not echo it.
func (g *AuthGateway) Login(ctx context.Context, creds domainauth.Credentials) LoginOutcome {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return LoginOutcome{Result: Failed(
			apperrors.Validation("Username and password are required"), "Login failed")}
	}

	res, err := g.api.Login(ctx, creds)
	if err != nil {
		g.logger.InfoContext(ctx, "login rejected", "username", creds.Username, "error", err)
		return LoginOutcome{Result: Failed(err, "Login failed")}
	}
	if res.Access == "" {
		g.logger.WarnContext(ctx, "login response carried no access token", "username", creds.Username)
		return LoginOutcome{Result: Failed(apperrors.Internal(loginUnavailableMessage), loginUnavailableMessage)}
	}
	if _, known := domainauth.ParseRole(string(res.UserType)); !known {
		g.logger.WarnContext(ctx, "login response carried unknown user type",
			"username", creds.Username, "user_type", res.UserType)
		return LoginOutcome{Result: Failed(apperrors.Internal(loginUnavailableMessage), loginUnavailableMessage)}
	}

	return LoginOutcome{
		Result: Succeeded(""),
		Tokens: domainauth.Tokens{Access: res.Access, Refresh: res.Refresh},
		User: domainauth.UserSummary{
			Username:   creds.Username,
			UserType:   res.UserType,
			IsVerified: res.IsVerified,
		},
	}
}

// RegisterDonor creates a donor account.
func (g *AuthGateway) RegisterDonor(ctx context.Context, reg model.DonorRegistration) Result {
	if err := g.api.RegisterDonor(ctx, reg); err != nil {
		g.logger.InfoContext(ctx, "donor registration rejected", "username", reg.Username, "error", err)
		return Failed(err, "Registration failed")
	}
	return Succeeded(model.DonorRegisteredMessage)
}

// RegisterHospital creates a hospital and its staff account.
func (g *AuthGateway) RegisterHospital(ctx context.Context, reg model.HospitalRegistration) Result {
	reg.User.UserType = string(domainauth.RoleHospitalStaff)
	if err := g.api.RegisterHospital(ctx, reg); err != nil {
		g.logger.InfoContext(ctx, "hospital registration rejected", "hospital", reg.Name, "error", err)
		return Failed(err, "Registration failed")
	}
	return Succeeded(model.HospitalRegisteredMessage)
}

// Profile fetches the current user's profile with token.
func (g *AuthGateway) Profile(ctx context.Context, token string) (map[string]any, error) {
	return g.api.Profile(ctx, token)
}
