package httpx

import (
	"net/http"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/http/ui/viewmodel"
)

//nolint:gochecknoglobals // static navigation
var staffTabs = []viewmodel.Tab{
	{Label: "Create Request", Href: "/staff-dashboard", Page: PageStaffCreate},
	{Label: "My Requests", Href: "/staff-dashboard/requests", Page: PageStaffRequests},
	{Label: "Hospital Profile", Href: "/staff-dashboard/profile", Page: PageStaffProfile},
	{Label: "Find Donors", Href: "/staff-dashboard/donors", Page: PageStaffDonors},
}

func (h *UIHandlers) staffPage(r *http.Request, page, title string) *TemplateDataBuilder {
	return h.page(r, PageMeta{
		Title:       "BloodConnect - " + title,
		PageTitle:   "Hospital Staff Dashboard",
		CurrentPage: page,
	}).WithTabs(staffTabs)
}

// StaffCreatePage shows an empty blood request form.
// GET /staff-dashboard.
func (h *UIHandlers) StaffCreatePage(w http.ResponseWriter, r *http.Request) {
	data := h.staffPage(r, PageStaffCreate, "Create Blood Request").
		With("Form", model.NewBloodRequestForm()).
		Build()
	h.render(w, r, data)
}

// CreateBloodRequest submits the form. Success resets the form to its defaults.
// POST /staff-dashboard/requests.
func (h *UIHandlers) CreateBloodRequest(w http.ResponseWriter, r *http.Request) {
	form, errs := parseBloodRequestForm(r)
	b := h.staffPage(r, PageStaffCreate, "Create Blood Request")
	if len(errs) > 0 {
		h.render(w, r, b.With("Form", form).WithError(invalidFormMessage).WithFieldErrors(errs).Build())
		return
	}

	next, res := h.Staff.CreateRequest(r.Context(), token(r), form)
	if h.handleResult(w, r, res) {
		return
	}
	h.render(w, r, b.With("Form", next).WithResult(res).Build())
}

// StaffRequests lists the hospital's blood requests.
// GET /staff-dashboard/requests.
func (h *UIHandlers) StaffRequests(w http.ResponseWriter, r *http.Request) {
	b := h.staffPage(r, PageStaffRequests, "My Requests")
	requests, err := h.Staff.Requests(r.Context(), token(r))
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Requests", requests).Build())
}

// StaffProfile shows the staff member's hospital.
// GET /staff-dashboard/profile.
func (h *UIHandlers) StaffProfile(w http.ResponseWriter, r *http.Request) {
	b := h.staffPage(r, PageStaffProfile, "Hospital Profile")
	hospital, err := h.Staff.HospitalProfile(r.Context(), token(r))
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Hospital", hospital).Build())
}

// StaffDonors searches available donors by blood group and city.
// GET /staff-dashboard/donors?blood_group=&city=.
func (h *UIHandlers) StaffDonors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := model.DonorSearch{BloodGroup: q.Get("blood_group"), City: q.Get("city")}
	b := h.staffPage(r, PageStaffDonors, "Find Donors").With("Search", search)
	donors, err := h.Staff.SearchDonors(r.Context(), token(r), search)
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Donors", donors).Build())
}
