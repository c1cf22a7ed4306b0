package httpx

import (
	"net/http"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/access"
	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/http/ui/viewmodel"
)

const (
	registeredDonor    = "donor"
	registeredHospital = "hospital"

	invalidFormMessage = "Please correct the highlighted fields."
)

// Landing renders the public home page.
// GET /.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	h.settle(r)
	data := h.page(r, PageMeta{
		Title:       "BloodConnect - Save Lives",
		PageTitle:   "Welcome",
		CurrentPage: PageLanding,
	}).Build()
	h.render(w, r, data)
}

// LoginPage shows the sign-in form. Signed-in users go straight to their dashboard.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := h.settle(r); sess.IsAuthenticated {
		redirect(w, r, sess.Role().DashboardPath())
		return
	}
	b := h.loginPage(r)
	switch r.URL.Query().Get("registered") {
	case registeredDonor:
		b.WithSuccess(model.DonorRegisteredMessage)
	case registeredHospital:
		b.WithSuccess(model.HospitalRegisteredMessage)
	}
	h.render(w, r, b.Build())
}

// Login submits credentials and lands the user on their role's dashboard.
// A successful sign-in always moves to a freshly issued session id; the id the
// browser arrived with is signed out and evicted.
// POST /login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	current, ok := SessionStoreFromContext(r.Context())
	if !ok || h.Sessions == nil {
		h.renderError(w, r, http.StatusInternalServerError, "Session unavailable.")
		return
	}
	username, password, errs := parseLoginForm(r)
	if len(errs) > 0 {
		h.render(w, r, h.loginPage(r).With("Username", username).
			WithError(invalidFormMessage).WithFieldErrors(errs).Build())
		return
	}

	fresh, err := h.Sessions.Issue()
	if err != nil {
		h.logger().ErrorContext(r.Context(), "issue session", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Session unavailable.")
		return
	}
	res := fresh.Login(r.Context(), domainauth.Credentials{Username: username, Password: password})
	if !res.OK {
		h.render(w, r, h.loginPage(r).With("Username", username).WithResult(res).Build())
		return
	}

	h.Sessions.Adopt(fresh)
	h.Cookie.set(w, r, fresh.ID())
	current.Logout(r.Context())
	h.forget(current.ID())
	h.Sessions.Drop(current.ID())

	redirect(w, r, fresh.Snapshot().Role().DashboardPath())
}

func (h *UIHandlers) loginPage(r *http.Request) *TemplateDataBuilder {
	return h.page(r, PageMeta{
		Title:       "BloodConnect - Login",
		PageTitle:   "Login",
		CurrentPage: PageLogin,
	})
}

// Logout clears the session and returns to the landing page.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := SessionStoreFromContext(r.Context()); ok {
		store.Logout(r.Context())
		h.forget(store.ID())
	}
	redirect(w, r, access.LandingPath)
}

// RegisterChoice lets a visitor pick donor or hospital registration.
// GET /register.
func (h *UIHandlers) RegisterChoice(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, PageMeta{
		Title:       "BloodConnect - Register",
		PageTitle:   "Register",
		CurrentPage: PageRegister,
	}).Build()
	h.render(w, r, data)
}

// RegisterDonorPage shows the donor sign-up form.
// GET /register/donor.
func (h *UIHandlers) RegisterDonorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.donorRegistrationPage(r).With("Form", model.DonorRegistration{}).Build())
}

// RegisterDonor submits the donor sign-up form.
// POST /register/donor.
func (h *UIHandlers) RegisterDonor(w http.ResponseWriter, r *http.Request) {
	reg, errs := parseDonorRegistration(r)
	b := h.donorRegistrationPage(r).With("Form", reg.Redacted())
	if len(errs) > 0 {
		h.render(w, r, b.WithError(invalidFormMessage).WithFieldErrors(errs).Build())
		return
	}
	res := h.Registrar.RegisterDonor(r.Context(), reg)
	if !res.OK {
		h.render(w, r, b.WithResult(res).Build())
		return
	}
	redirect(w, r, access.LoginPath+"?registered="+registeredDonor)
}

func (h *UIHandlers) donorRegistrationPage(r *http.Request) *TemplateDataBuilder {
	return h.page(r, PageMeta{
		Title:       "BloodConnect - Donor Registration",
		PageTitle:   "Register as Donor",
		CurrentPage: PageRegisterDonor,
	})
}

// RegisterHospitalPage shows the hospital sign-up form.
// GET /register/hospital.
func (h *UIHandlers) RegisterHospitalPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.hospitalRegistrationPage(r).With("Form", model.HospitalRegistration{}).Build())
}

// RegisterHospital submits the hospital sign-up form.
// POST /register/hospital.
func (h *UIHandlers) RegisterHospital(w http.ResponseWriter, r *http.Request) {
	reg, errs := parseHospitalRegistration(r)
	b := h.hospitalRegistrationPage(r).With("Form", reg.Redacted())
	if len(errs) > 0 {
		h.render(w, r, b.WithError(invalidFormMessage).WithFieldErrors(errs).Build())
		return
	}
	res := h.Registrar.RegisterHospital(r.Context(), reg)
	if !res.OK {
		h.render(w, r, b.WithResult(res).Build())
		return
	}
	redirect(w, r, access.LoginPath+"?registered="+registeredHospital)
}

func (h *UIHandlers) hospitalRegistrationPage(r *http.Request) *TemplateDataBuilder {
	return h.page(r, PageMeta{
		Title:       "BloodConnect - Hospital Registration",
		PageTitle:   "Register Hospital",
		CurrentPage: PageRegisterHospital,
	})
}

// AuthStatusResponse is the body of GET /auth/status.
type AuthStatusResponse struct {
	Authenticated bool            `json:"authenticated"`
	Loading       bool            `json:"loading"`
	User          *viewmodel.User `json:"user,omitempty"`
}

// AuthStatus reports the session state as JSON for scripts and health checks.
// GET /auth/status.
func (h *UIHandlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	sess := h.settle(r)
	WriteJSON(w, http.StatusOK, AuthStatusResponse{
		Authenticated: sess.IsAuthenticated,
		Loading:       sess.Loading,
		User:          viewmodel.UserFromSession(sess),
	})
}

// settle gives an in-flight restore up to RestoreWait to finish and returns
// the resulting session.
func (h *UIHandlers) settle(r *http.Request) domainauth.Session {
	store, ok := SessionStoreFromContext(r.Context())
	if !ok {
		return domainauth.EmptySession()
	}
	awaitRestore(r.Context(), store, h.RestoreWait)
	return store.Snapshot()
}
