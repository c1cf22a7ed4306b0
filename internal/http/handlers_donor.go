package httpx

import (
	"net/http"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/http/ui/viewmodel"
)

//nolint:gochecknoglobals // static navigation
var donorTabs = []viewmodel.Tab{
	{Label: "Overview", Href: "/donor-dashboard", Page: PageDonorOverview},
	{Label: "Notifications", Href: "/donor-dashboard/notifications", Page: PageDonorNotifications},
	{Label: "Profile", Href: "/donor-dashboard/profile", Page: PageDonorProfile},
	{Label: "History", Href: "/donor-dashboard/history", Page: PageDonorHistory},
}

func (h *UIHandlers) donorPage(r *http.Request, page, title string) *TemplateDataBuilder {
	return h.page(r, PageMeta{
		Title:       "BloodConnect - " + title,
		PageTitle:   "Donor Dashboard",
		CurrentPage: page,
	}).WithTabs(donorTabs)
}

// DonorOverview shows the donor's summary and recent donations.
// GET /donor-dashboard.
func (h *UIHandlers) DonorOverview(w http.ResponseWriter, r *http.Request) {
	b := h.donorPage(r, PageDonorOverview, "Donor Dashboard")
	overview, err := h.Donor.Overview(r.Context(), token(r))
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Overview", overview).Build())
}

// DonorNotifications lists open blood-request notifications, always fetched fresh.
// GET /donor-dashboard/notifications.
func (h *UIHandlers) DonorNotifications(w http.ResponseWriter, r *http.Request) {
	b := h.donorPage(r, PageDonorNotifications, "Notifications")
	list, err := h.Donor.Notifications(r.Context(), sessionID(r.Context()), token(r), true)
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Notifications", list).Build())
}

// RespondToNotification accepts or declines one notification. On success the
// notification disappears from the re-rendered list.
// POST /donor-dashboard/notifications/{id}/respond.
func (h *UIHandlers) RespondToNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.renderError(w, r, http.StatusBadRequest, "Invalid notification.")
		return
	}
	resp, ok := model.ParseNotificationResponse(formValue(r, "response"))
	if !ok {
		h.renderError(w, r, http.StatusBadRequest, "Response must be accept or decline.")
		return
	}

	list, res := h.Donor.Respond(r.Context(), sessionID(r.Context()), token(r), id, resp)
	if h.handleResult(w, r, res) {
		return
	}
	data := h.donorPage(r, PageDonorNotifications, "Notifications").
		With("Notifications", list).
		WithResult(res).
		Build()
	h.render(w, r, data)
}

// DonorProfile shows the donor's profile, or the edit form with ?edit=1.
// GET /donor-dashboard/profile.
func (h *UIHandlers) DonorProfile(w http.ResponseWriter, r *http.Request) {
	b := h.donorPage(r, PageDonorProfile, "My Profile")
	profile, err := h.Donor.Profile(r.Context(), token(r))
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	b.With("Profile", profile)
	if r.URL.Query().Get("edit") == "1" && err == nil {
		b.With("Editing", true).With("Form", model.UpdateFrom(profile))
	}
	h.render(w, r, b.Build())
}

// UpdateDonorProfile saves the edit form. Failures keep the form open with
// what was typed.
// POST /donor-dashboard/profile.
func (h *UIHandlers) UpdateDonorProfile(w http.ResponseWriter, r *http.Request) {
	upd, errs := parseProfileUpdate(r)
	b := h.donorPage(r, PageDonorProfile, "My Profile")
	if len(errs) > 0 {
		h.render(w, r, b.With("Editing", true).With("Form", upd).
			With("Profile", upd.Apply(model.DonorProfile{})).
			WithError(invalidFormMessage).WithFieldErrors(errs).Build())
		return
	}

	profile, res := h.Donor.UpdateProfile(r.Context(), token(r), upd)
	if h.handleResult(w, r, res) {
		return
	}
	if !res.OK {
		profile = upd.Apply(model.DonorProfile{})
		b.With("Editing", true).With("Form", upd)
	}
	b.With("Profile", profile).WithResult(res)
	h.render(w, r, b.Build())
}

// DonorHistory lists past donations.
// GET /donor-dashboard/history.
func (h *UIHandlers) DonorHistory(w http.ResponseWriter, r *http.Request) {
	b := h.donorPage(r, PageDonorHistory, "Donation History")
	history, err := h.Donor.History(r.Context(), token(r))
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Donations", history).Build())
}
