package httpx

// Page identifiers used in templates and navigation.
const (
	PageLanding          = "landing"
	PageLogin            = "login"
	PageRegister         = "register"
	PageRegisterDonor    = "register-donor"
	PageRegisterHospital = "register-hospital"
	PagePending          = "pending"

	PageDonorOverview      = "donor-overview"
	PageDonorNotifications = "donor-notifications"
	PageDonorProfile       = "donor-profile"
	PageDonorHistory       = "donor-history"

	PageStaffCreate   = "staff-create"
	PageStaffRequests = "staff-requests"
	PageStaffProfile  = "staff-profile"
	PageStaffDonors   = "staff-donors"

	PageAdminPending   = "admin-pending"
	PageAdminAnalytics = "admin-analytics"
)

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
	StaticPathFromRoot   = "frontend/static"
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageLanding:            "landing-content",
	PageLogin:              "login-content",
	PageRegister:           "register-content",
	PageRegisterDonor:      "register-donor-content",
	PageRegisterHospital:   "register-hospital-content",
	PagePending:            "pending-content",
	PageDonorOverview:      "donor-overview-content",
	PageDonorNotifications: "donor-notifications-content",
	PageDonorProfile:       "donor-profile-content",
	PageDonorHistory:       "donor-history-content",
	PageStaffCreate:        "staff-create-content",
	PageStaffRequests:      "staff-requests-content",
	PageStaffProfile:       "staff-profile-content",
	PageStaffDonors:        "staff-donors-content",
	PageAdminPending:       "admin-pending-content",
	PageAdminAnalytics:     "admin-analytics-content",
}

// ContentTemplateFor returns the content template for a page, falling back to the landing page.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "landing-content"
}
