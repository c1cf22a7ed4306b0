package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"maps"
	"strconv"
)

// Role is the platform user type returned by the backend as user_type.
type Role string

const (
	RoleDonor            Role = "donor"
	RoleHospitalStaff    Role = "hospital_staff"
	RoleBloodBankManager Role = "blood_bank_manager"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleDonor, RoleHospitalStaff, RoleBloodBankManager}
}

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case RoleDonor, RoleHospitalStaff, RoleBloodBankManager:
		return r, true
	default:
		return "", false
	}
}

// DashboardPath returns the home view for the role, or "/" for unknown roles.
func (r Role) DashboardPath() string {
	switch r {
	case RoleDonor:
		return "/donor-dashboard"
	case RoleHospitalStaff:
		return "/staff-dashboard"
	case RoleBloodBankManager:
		return "/admin-dashboard"
	default:
		return "/"
	}
}

// Label is the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleDonor:
		return "Donor"
	case RoleHospitalStaff:
		return "Hospital Staff"
	case RoleBloodBankManager:
		return "Blood Bank Manager"
	default:
		return string(r)
	}
}

// Credentials are submitted by the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Tokens is the JWT pair issued by the backend on login.
type Tokens struct {
	Access  string
	Refresh string
}

// UserSummary identifies the logged-in user. Profile holds every other field
// returned by the profile endpoint.
type UserSummary struct {
	Username   string         `json:"username"`
	UserType   Role           `json:"user_type"`
	IsVerified bool           `json:"is_verified"`
	Profile    map[string]any `json:"profile,omitempty"`
}

// Clone returns a deep copy of u.
func (u UserSummary) Clone() UserSummary {
	out := u
	if u.Profile != nil {
		out.Profile = cloneMap(u.Profile)
	}
	return out
}

// Merge returns a copy of u with fields layered on top. Known identity keys
// replace the typed fields when they carry the right type; everything else
// lands in Profile.
func (u UserSummary) Merge(fields map[string]any) UserSummary {
	out := u.Clone()
	if len(fields) == 0 {
		return out
	}
	if out.Profile == nil {
		out.Profile = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		switch k {
		case "username":
			if s, ok := v.(string); ok && s != "" {
				out.Username = s
			}
		case "user_type":
			if s, ok := v.(string); ok {
				if r, known := ParseRole(s); known {
					out.UserType = r
				}
			}
		case "is_verified":
			if b, ok := v.(bool); ok {
				out.IsVerified = b
			}
		default:
			out.Profile[k] = cloneValue(v)
		}
	}
	return out
}

// Field returns a profile field formatted for display, or "" when absent.
func (u UserSummary) Field(name string) string {
	v, ok := u.Profile[name]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// DisplayName prefers the profile's full name over the username.
func (u UserSummary) DisplayName() string {
	for _, key := range []string{"full_name", "name", "first_name"} {
		if s := u.Field(key); s != "" {
			return s
		}
	}
	return u.Username
}

// Session is an immutable view of one browser session's authentication state.
// IsAuthenticated holds exactly when Token is set and User is non-nil.
type Session struct {
	User            *UserSummary
	Token           string
	IsAuthenticated bool
	Loading         bool
}

// EmptySession is the signed-out state.
func EmptySession() Session { return Session{} }

// LoadingSession is the state while a stored session is being validated.
func LoadingSession() Session { return Session{Loading: true} }

// AuthenticatedSession builds a signed-in session. An empty token yields an empty session.
func AuthenticatedSession(token string, user UserSummary) Session {
	if token == "" {
		return EmptySession()
	}
	u := user.Clone()
	return Session{User: &u, Token: token, IsAuthenticated: true}
}

// Clone returns a deep copy so callers can never mutate the owner's state.
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := s.User.Clone()
		out.User = &u
	}
	return out
}

// Role returns the user's role, or "" when signed out.
func (s Session) Role() Role {
	if !s.IsAuthenticated || s.User == nil {
		return ""
	}
	return s.User.UserType
}

// Consistent reports whether the authentication invariant holds.
func (s Session) Consistent() bool {
	return s.IsAuthenticated == (s.Token != "" && s.User != nil)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	case map[string]string:
		return maps.Clone(x)
	default:
		return v
	}
}
