package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

var (
	_ ports.AuthAPI  = (*Client)(nil)
	_ ports.DonorAPI = (*Client)(nil)
	_ ports.StaffAPI = (*Client)(nil)
	_ ports.AdminAPI = (*Client)(nil)
)

type loginResponse struct {
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
	UserType   string `json:"user_type"`
	IsVerified bool   `json:"is_verified"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
	var out loginResponse
	err := c.do(ctx, call{
		endpoint: "auth_login",
		method:   http.MethodPost,
		path:     "/auth/login/",
		body:     creds,
		out:      &out,
	})
	if err != nil {
		return ports.LoginResult{}, err
	}
	if out.Access == "" {
		return ports.LoginResult{}, apperrors.Unavailable("Received an unexpected response from the server")
	}
	return ports.LoginResult{
		Access:     out.Access,
		Refresh:    out.Refresh,
		UserType:   domainauth.Role(out.UserType),
		IsVerified: out.IsVerified,
	}, nil
}

// RegisterDonor creates a donor account.
func (c *Client) RegisterDonor(ctx context.Context, reg model.DonorRegistration) error {
	return c.do(ctx, call{
		endpoint: "auth_register_donor",
		method:   http.MethodPost,
		path:     "/auth/register/donor/",
		body:     reg,
	})
}

// RegisterHospital creates a hospital and its first staff account.
func (c *Client) RegisterHospital(ctx context.Context, reg model.HospitalRegistration) error {
	return c.do(ctx, call{
		endpoint: "auth_register_hospital",
		method:   http.MethodPost,
		path:     "/auth/register/hospital/",
		body:     reg,
	})
}

// Profile fetches the caller's own profile.
func (c *Client) Profile(ctx context.Context, token string) (map[string]any, error) {
	out := map[string]any{}
	err := c.do(ctx, call{
		endpoint: "auth_profile",
		method:   http.MethodGet,
		path:     "/auth/profile/",
		token:    token,
		out:      &out,
	})
	return out, err
}

func (c *Client) DonorProfile(ctx context.Context, token string) (model.DonorProfile, error) {
	var out model.DonorProfile
	err := c.do(ctx, call{
		endpoint: "donor_profile",
		method:   http.MethodGet,
		path:     "/donors/donor/profile/",
		token:    token,
		out:      &out,
	})
	return out, err
}

// UpdateDonorProfile PUTs the editable fields and returns the stored profile.
// Backends that answer with an empty body get the update applied locally.
func (c *Client) UpdateDonorProfile(
	ctx context.Context,
	token string,
	upd model.DonorProfileUpdate,
) (model.DonorProfile, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		endpoint: "donor_profile_update",
		method:   http.MethodPut,
		path:     "/donors/donor/profile/",
		token:    token,
		body:     upd,
		out:      &raw,
	})
	if err != nil {
		return model.DonorProfile{}, err
	}
	if len(raw) == 0 {
		return upd.Apply(model.DonorProfile{}), nil
	}
	var out model.DonorProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.DonorProfile{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Received an unexpected response from the server")
	}
	return out, nil
}

func (c *Client) DonationHistory(ctx context.Context, token string) ([]model.Donation, error) {
	return listCall[model.Donation](ctx, c, call{
		endpoint: "donor_history",
		method:   http.MethodGet,
		path:     "/donors/donor/donation-history/",
		token:    token,
	}, "donations")
}

func (c *Client) DonorNotifications(ctx context.Context, token string) ([]model.Notification, error) {
	return listCall[model.Notification](ctx, c, call{
		endpoint: "donor_notifications",
		method:   http.MethodGet,
		path:     "/requests/notifications/donor/",
		token:    token,
	}, "notifications")
}

// RespondToNotification records accept or decline for a notification.
func (c *Client) RespondToNotification(
	ctx context.Context,
	token string,
	id int64,
	resp model.NotificationResponse,
) error {
	return c.do(ctx, call{
		endpoint: "notification_respond",
		method:   http.MethodPost,
		path:     "/requests/notifications/" + strconv.FormatInt(id, 10) + "/respond/",
		token:    token,
		body:     map[string]string{"response": string(resp)},
	})
}

func (c *Client) HospitalProfile(ctx context.Context, token string) (model.HospitalProfile, error) {
	var out model.HospitalProfile
	err := c.do(ctx, call{
		endpoint: "hospital_profile",
		method:   http.MethodGet,
		path:     "/hospitals/profile/",
		token:    token,
		out:      &out,
	})
	return out, err
}

// CreateBloodRequest submits a new request for admin review.
func (c *Client) CreateBloodRequest(
	ctx context.Context,
	token string,
	req model.CreateBloodRequest,
) (model.BloodRequest, error) {
	var out model.BloodRequest
	err := c.do(ctx, call{
		endpoint: "blood_request_create",
		method:   http.MethodPost,
		path:     "/hospitals/blood-requests/create/",
		token:    token,
		body:     req,
		out:      &out,
	})
	return out, err
}

func (c *Client) HospitalRequests(ctx context.Context, token string) ([]model.BloodRequest, error) {
	return listCall[model.BloodRequest](ctx, c, call{
		endpoint: "hospital_requests",
		method:   http.MethodGet,
		path:     "/hospitals/blood-requests/",
		token:    token,
	}, "requests")
}

func (c *Client) AvailableDonors(
	ctx context.Context,
	token string,
	search model.DonorSearch,
) ([]model.AvailableDonor, error) {
	return listCall[model.AvailableDonor](ctx, c, call{
		endpoint: "available_donors",
		method:   http.MethodGet,
		path:     "/donors/",
		query:    search.Query(),
		token:    token,
	}, "donors")
}

func (c *Client) PendingRequests(ctx context.Context, token string) ([]model.BloodRequest, error) {
	return listCall[model.BloodRequest](ctx, c, call{
		endpoint: "pending_requests",
		method:   http.MethodGet,
		path:     "/requests/pending/",
		token:    token,
	}, "requests")
}

func (c *Client) ApproveRequest(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{
		endpoint: "request_approve",
		method:   http.MethodPost,
		path:     "/requests/" + strconv.FormatInt(id, 10) + "/approve/",
		token:    token,
	})
}

func (c *Client) RejectRequest(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{
		endpoint: "request_reject",
		method:   http.MethodPost,
		path:     "/requests/" + strconv.FormatInt(id, 10) + "/reject/",
		token:    token,
	})
}

func listCall[T any](ctx context.Context, c *Client, cl call, key string) ([]T, error) {
	var raw json.RawMessage
	cl.out = &raw
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return decodeList[T](raw, key)
}
