// Package viewmodel holds the typed shapes shared by the layout templates.
package viewmodel

import (
	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
)

// User is the signed-in user as the header shows it.
type User struct {
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	Role          string `json:"role"`
	RoleLabel     string `json:"role_label"`
	DashboardPath string `json:"dashboard_path"`
	IsVerified    bool   `json:"is_verified"`
}

// UserFromSession returns nil for signed-out sessions.
func UserFromSession(s domainauth.Session) *User {
	if !s.IsAuthenticated || s.User == nil {
		return nil
	}
	role := s.User.UserType
	return &User{
		Username:      s.User.Username,
		DisplayName:   s.User.DisplayName(),
		Role:          string(role),
		RoleLabel:     role.Label(),
		DashboardPath: role.DashboardPath(),
		IsVerified:    s.User.IsVerified,
	}
}

// Tab is one dashboard navigation entry.
type Tab struct {
	Label  string
	Href   string
	Page   string
	Active bool
}

// Tabs marks the entry for current as active. The input is not modified.
func Tabs(current string, tabs []Tab) []Tab {
	out := make([]Tab, len(tabs))
	for i, t := range tabs {
		t.Active = t.Page == current
		out[i] = t
	}
	return out
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
}
