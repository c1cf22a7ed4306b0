package httpx

import (
	"context"
	"net/http"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/http/ui/viewmodel"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

//nolint:gochecknoglobals // static navigation
var adminTabs = []viewmodel.Tab{
	{Label: "Pending Approvals", Href: "/admin-dashboard", Page: PageAdminPending},
	{Label: "Analytics", Href: "/admin-dashboard/analytics", Page: PageAdminAnalytics},
}

func (h *UIHandlers) adminPage(r *http.Request, page, title string) *TemplateDataBuilder {
	return h.page(r, PageMeta{
		Title:       "BloodConnect - " + title,
		PageTitle:   "Blood Bank Manager Dashboard",
		CurrentPage: page,
	}).WithTabs(adminTabs)
}

// AdminPending lists blood requests awaiting review with the headline counters.
// GET /admin-dashboard.
func (h *UIHandlers) AdminPending(w http.ResponseWriter, r *http.Request) {
	b := h.adminPage(r, PageAdminPending, "Admin Dashboard")
	overview, err := h.Admin.Overview(r.Context(), sessionID(r.Context()), token(r))
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	stats := overview.Stats
	h.render(w, r, b.With("Pending", overview.Pending).With("Stats", &stats).Build())
}

// ApproveRequest approves one pending request.
// POST /admin-dashboard/requests/{id}/approve.
func (h *UIHandlers) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Admin.Approve)
}

// RejectRequest rejects one pending request.
// POST /admin-dashboard/requests/{id}/reject.
func (h *UIHandlers) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Admin.Reject)
}

type decisionFunc func(ctx context.Context, sid, token string, id int64) ([]model.BloodRequest, service.Result)

func (h *UIHandlers) decide(w http.ResponseWriter, r *http.Request, fn decisionFunc) {
	id, ok := pathID(r)
	if !ok {
		h.renderError(w, r, http.StatusBadRequest, "Invalid request.")
		return
	}
	pending, res := fn(r.Context(), sessionID(r.Context()), token(r), id)
	if h.handleResult(w, r, res) {
		return
	}
	data := h.adminPage(r, PageAdminPending, "Admin Dashboard").
		With("Pending", pending).
		WithResult(res).
		Build()
	h.render(w, r, data)
}

// AdminAnalytics shows platform totals and the recent activity feed.
// GET /admin-dashboard/analytics.
func (h *UIHandlers) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	b := h.adminPage(r, PageAdminAnalytics, "Analytics")
	stats, activity, err := h.Admin.Analytics(r.Context())
	if err != nil && h.handleReadError(w, r, b, err) {
		return
	}
	h.render(w, r, b.With("Stats", &stats).With("Activity", activity).Build())
}
