package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

// formInputs returns name=value for every input inside the element with id.
func formInputs(t *testing.T, body, id string) map[string]string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	form := findByID(doc, id)
	require.NotNil(t, form, "element #%s not found", id)

	out := map[string]string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			out[attr(n, "name")] = attr(n, "value")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)
	return out
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestDonorOverview_Renders(t *testing.T) {
	app := newTestApp(t)
	app.donor.OverviewFunc = func(_ context.Context, token string) (model.DonorOverview, error) {
		assert.NotEmpty(t, token)
		return model.DonorOverview{
			Profile:   model.DonorProfile{BloodGroup: "O+", IsAvailable: true},
			Donations: []model.Donation{{HospitalName: "City Hospital", UnitsDonated: 1}},
		}, nil
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"Donor Dashboard", "O+", "City Hospital", "Available"}))
}

func TestDonorOverview_PartialForHTMX(t *testing.T) {
	app := newTestApp(t)
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard/history", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="header-title"`)
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "nav:activate")
}

func TestDonorOverview_BackendFailureShowsBanner(t *testing.T) {
	app := newTestApp(t)
	app.donor.OverviewFunc = func(context.Context, string) (model.DonorOverview, error) {
		return model.DonorOverview{}, apperrors.Unavailable("backend down")
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.True(t, app.storage.Has(sid), "non-auth failures keep the session")
}

func TestDonorRead_UnauthorizedForcesLogout(t *testing.T) {
	app := newTestApp(t)
	app.donor.HistoryFunc = func(context.Context, string) ([]model.Donation, error) {
		return nil, apperrors.Unauthorized("token expired")
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard/history", session: sid})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, app.storage.Has(sid))
	assert.Contains(t, app.donor.forgotten, sid)
	assert.Contains(t, app.admin.forgotten, sid)

	rec = app.do(request{path: "/donor-dashboard", session: sid})
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRespondToNotification_RemovesAnsweredItem(t *testing.T) {
	app := newTestApp(t)
	notifications := []model.Notification{
		{ID: 7, RequestDetails: model.RequestDetails{PatientName: "Ravi", HospitalName: "City Hospital"}},
		{ID: 9, RequestDetails: model.RequestDetails{PatientName: "Meera", HospitalName: "General"}},
	}
	app.donor.NotificationsFunc = func(context.Context, string, string, bool) ([]model.Notification, error) {
		return notifications, nil
	}
	var got model.NotificationResponse
	app.donor.RespondFunc = func(
		_ context.Context,
		_, _ string,
		id int64,
		resp model.NotificationResponse,
	) ([]model.Notification, service.Result) {
		got = resp
		var kept []model.Notification
		for _, n := range notifications {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		return kept, service.Succeeded("Thank you for accepting!")
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard/notifications", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="notification-7"`)

	rec = app.do(request{
		method:  http.MethodPost,
		path:    "/donor-dashboard/notifications/7/respond",
		session: sid,
		form:    url.Values{"response": {"accept"}},
		htmx:    true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, model.ResponseAccept, got)
	assert.NotContains(t, body, `id="notification-7"`)
	assert.Contains(t, body, `id="notification-9"`)
	assert.Contains(t, body, "Thank you for accepting!")
}

func TestRespondToNotification_BadInput(t *testing.T) {
	app := newTestApp(t)
	sid := app.signIn(domainauth.RoleDonor)

	tests := []struct {
		name string
		path string
		resp string
	}{
		{name: "non numeric id", path: "/donor-dashboard/notifications/abc/respond", resp: "accept"},
		{name: "zero id", path: "/donor-dashboard/notifications/0/respond", resp: "accept"},
		{name: "unknown response", path: "/donor-dashboard/notifications/3/respond", resp: "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(request{
				method:  http.MethodPost,
				path:    tt.path,
				session: sid,
				form:    url.Values{"response": {tt.resp}},
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRespondToNotification_UnauthorizedForcesLogout(t *testing.T) {
	app := newTestApp(t)
	app.donor.RespondFunc = func(
		context.Context, string, string, int64, model.NotificationResponse,
	) ([]model.Notification, service.Result) {
		return nil, service.Failed(apperrors.Unauthorized("expired"), "Failed to respond")
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/donor-dashboard/notifications/4/respond",
		session: sid,
		form:    url.Values{"response": {"decline"}},
		htmx:    true,
	})
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
	assert.False(t, app.storage.Has(sid))
}

func TestDonorProfile_EditForm(t *testing.T) {
	app := newTestApp(t)
	app.donor.ProfileFunc = func(context.Context, string) (model.DonorProfile, error) {
		return model.DonorProfile{FullName: "Asha Rao", City: "Pune"}, nil
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{path: "/donor-dashboard/profile?edit=1", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Pune"`)
}

func TestUpdateDonorProfile_FailureKeepsInput(t *testing.T) {
	app := newTestApp(t)
	app.donor.UpdateFunc = func(
		context.Context, string, model.DonorProfileUpdate,
	) (model.DonorProfile, service.Result) {
		return model.DonorProfile{}, service.Failed(apperrors.Unavailable("down"), "Failed to update profile")
	}
	sid := app.signIn(domainauth.RoleDonor)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/donor-dashboard/profile",
		session: sid,
		form: url.Values{
			"full_name":    {"Asha Rao"},
			"phone_number": {"9876543210"},
			"city":         {"Nagpur"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Nagpur"`)
	assert.Contains(t, body, `role="alert"`)
}

func TestCreateBloodRequest_SuccessResetsForm(t *testing.T) {
	app := newTestApp(t)
	var submitted model.BloodRequestForm
	app.staff.CreateFunc = func(
		_ context.Context,
		_ string,
		form model.BloodRequestForm,
	) (model.BloodRequestForm, service.Result) {
		submitted = form
		return model.NewBloodRequestForm(), service.Succeeded("Blood request created successfully!")
	}
	sid := app.signIn(domainauth.RoleHospitalStaff)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/staff-dashboard/requests",
		session: sid,
		form: url.Values{
			"patient_name":     {"Ravi Kumar"},
			"patient_age":      {"42"},
			"patient_gender":   {"M"},
			"blood_group":      {"B+"},
			"units_required":   {"3"},
			"hemoglobin_level": {"7.5"},
			"diagnosis":        {"Anemia"},
			"urgency_level":    {"high"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ravi Kumar", submitted.PatientName)

	body := rec.Body.String()
	assert.Contains(t, body, "Blood request created successfully!")
	inputs := formInputs(t, body, "blood-request-form")
	assert.Empty(t, inputs["patient_name"])
	assert.Empty(t, inputs["patient_age"])
	assert.Empty(t, inputs["hemoglobin_level"])
	assert.Empty(t, inputs["diagnosis"])
	assert.Equal(t, "1", inputs["units_required"])
}

func TestCreateBloodRequest_ValidationKeepsInput(t *testing.T) {
	app := newTestApp(t)
	called := false
	app.staff.CreateFunc = func(
		context.Context, string, model.BloodRequestForm,
	) (model.BloodRequestForm, service.Result) {
		called = true
		return model.NewBloodRequestForm(), service.Succeeded("")
	}
	sid := app.signIn(domainauth.RoleHospitalStaff)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/staff-dashboard/requests",
		session: sid,
		form:    url.Values{"patient_name": {"Ravi Kumar"}, "patient_age": {"200"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	inputs := formInputs(t, rec.Body.String(), "blood-request-form")
	assert.Equal(t, "Ravi Kumar", inputs["patient_name"])
	assert.Equal(t, "200", inputs["patient_age"])
	assert.Contains(t, rec.Body.String(), invalidFormMessage)
}

func TestStaffDonors_PassesSearch(t *testing.T) {
	app := newTestApp(t)
	var got model.DonorSearch
	app.staff.SearchFunc = func(
		_ context.Context,
		_ string,
		search model.DonorSearch,
	) ([]model.AvailableDonor, error) {
		got = search
		return []model.AvailableDonor{{FullName: "Kiran", BloodGroup: "A-", City: "Pune"}}, nil
	}
	sid := app.signIn(domainauth.RoleHospitalStaff)

	rec := app.do(request{path: "/staff-dashboard/donors?blood_group=A-&city=Pune", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DonorSearch{BloodGroup: "A-", City: "Pune"}, got)
	assert.Contains(t, rec.Body.String(), "Kiran")
}

func TestAdminDecision_RemovesRequest(t *testing.T) {
	app := newTestApp(t)
	app.admin.OverviewFunc = func(context.Context, string, string) (model.AdminOverview, error) {
		return model.AdminOverview{
			Pending: []model.BloodRequest{{ID: 11, PatientName: "Ravi"}, {ID: 12, PatientName: "Meera"}},
			Stats:   model.PlatformStats{TotalDonors: 40},
		}, nil
	}
	var approved []int64
	var rejected []int64
	app.admin.DecideFunc = func(
		_ context.Context,
		_, _ string,
		id int64,
		approve bool,
	) ([]model.BloodRequest, service.Result) {
		if approve {
			approved = append(approved, id)
			return []model.BloodRequest{{ID: 12, PatientName: "Meera"}}, service.Succeeded("Request approved.")
		}
		rejected = append(rejected, id)
		return nil, service.Succeeded("Request rejected.")
	}
	sid := app.signIn(domainauth.RoleBloodBankManager)

	rec := app.do(request{path: "/admin-dashboard", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="request-11"`)

	rec = app.do(request{method: http.MethodPost, path: "/admin-dashboard/requests/11/approve", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `id="request-11"`)
	assert.Contains(t, rec.Body.String(), `id="request-12"`)

	rec = app.do(request{method: http.MethodPost, path: "/admin-dashboard/requests/12/reject", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request rejected.")

	assert.Equal(t, []int64{11}, approved)
	assert.Equal(t, []int64{12}, rejected)
}

func TestAdminDecision_ForbiddenKeepsSession(t *testing.T) {
	app := newTestApp(t)
	app.admin.DecideFunc = func(context.Context, string, string, int64, bool) ([]model.BloodRequest, service.Result) {
		return []model.BloodRequest{{ID: 11, PatientName: "Ravi"}},
			service.Failed(apperrors.Forbidden("You do not have permission to perform this action."), "Failed to approve request")
	}
	sid := app.signIn(domainauth.RoleBloodBankManager)

	rec := app.do(request{method: http.MethodPost, path: "/admin-dashboard/requests/11/approve", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Hx-Redirect"))
	assert.Contains(t, rec.Body.String(), "You do not have permission to perform this action.")
	assert.Contains(t, rec.Body.String(), `id="request-11"`)
	assert.True(t, app.storage.Has(sid))
	assert.Empty(t, app.admin.forgotten)
}

func TestAdminAnalytics_Renders(t *testing.T) {
	app := newTestApp(t)
	app.admin.AnalyticsFunc = func(context.Context) (model.PlatformStats, []model.Activity, error) {
		return model.PlatformStats{TotalDonors: 120, TotalRequests: 10, FulfilledRequests: 5},
			[]model.Activity{{Type: "request", Description: "New request", User: "drmehta"}},
			nil
	}
	sid := app.signIn(domainauth.RoleBloodBankManager)

	rec := app.do(request{path: "/admin-dashboard/analytics", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"120", "New request", "drmehta"}))
}

func TestRegisterDonor_ValidationErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/register/donor",
		session: uuid.NewString(),
		form:    url.Values{"username": {"asha"}, "password": {"short"}, "password2": {"other"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), invalidFormMessage)
	assert.NotContains(t, rec.Body.String(), `value="short"`)
	assert.Empty(t, app.registrar.donors)
}

func TestRegisterDonor_SuccessRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	sid := uuid.NewString()

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/register/donor",
		session: sid,
		form: url.Values{
			"username":      {"asha"},
			"email":         {"asha@example.com"},
			"password":      {"longenough1"},
			"password2":     {"longenough1"},
			"full_name":     {"Asha Rao"},
			"phone_number":  {"9876543210"},
			"date_of_birth": {"1990-04-12"},
			"gender":        {"F"},
			"blood_group":   {"O+"},
			"city":          {"Pune"},
		},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?registered=donor", rec.Header().Get("Location"))
	require.Len(t, app.registrar.donors, 1)
	assert.Equal(t, "asha@example.com", app.registrar.donors[0].Email)

	rec = app.do(request{path: "/login?registered=donor", session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.DonorRegisteredMessage)
}

func TestRegisterHospital_BackendErrorRerenders(t *testing.T) {
	app := newTestApp(t)
	res := service.Failed(apperrors.ValidationField("user.username", "This username is taken."), "Registration failed")
	app.registrar.hospitalResult = &res

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/register/hospital",
		session: uuid.NewString(),
		form: url.Values{
			"name":              {"City Hospital"},
			"hospital_username": {"cityhosp"},
			"email":             {"desk@city.example"},
			"phone_number":      {"020123456"},
			"address":           {"1 Main Road"},
			"city":              {"Pune"},
			"state":             {"MH"},
			"pincode":           {"411001"},
			"license_number":    {"LIC-1"},
			"staff_username":    {"drmehta"},
			"staff_email":       {"mehta@city.example"},
			"staff_password":    {"longenough1"},
			"staff_password2":   {"longenough1"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This username is taken.")
	assert.NotContains(t, rec.Body.String(), "longenough1")
}

func TestChat_OpenAskClose(t *testing.T) {
	app := newTestApp(t)
	sid := uuid.NewString()

	rec := app.do(request{method: http.MethodPost, path: "/chat/open", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="chat-widget"`)

	rec = app.do(request{
		method:  http.MethodPost,
		path:    "/chat/messages",
		session: sid,
		htmx:    true,
		form:    url.Values{"message": {"How do I register as a donor?"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "How do I register as a donor?")
	require.Len(t, app.chat.View(sid).Messages, 3)

	rec = app.do(request{method: http.MethodPost, path: "/chat/close", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, app.chat.View(sid).Open)
	assert.Empty(t, app.chat.View(sid).Messages)

	rec = app.do(request{method: http.MethodPost, path: "/chat/open", session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "How do I register as a donor?")
	assert.Len(t, app.chat.View(sid).Messages, 1, "reopening starts from the welcome message")
}

func TestChat_PlainPostRedirectsBack(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{
		method:  http.MethodPost,
		path:    "/chat/open",
		session: uuid.NewString(),
		referer: "http://example.com/register?x=1",
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register?x=1", rec.Header().Get("Location"))

	rec = app.do(request{
		method:  http.MethodPost,
		path:    "/chat/open",
		session: uuid.NewString(),
		referer: "https://evil.test/phish",
	})
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
