// Package access decides whether a session may see a role-gated view.
package access

import (
	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
)

// Redirect targets.
const (
	LoginPath   = "/login"
	LandingPath = "/"
)

// DecisionKind enumerates authorization outcomes.
type DecisionKind int

const (
	// Pending means the session is still being restored; show a neutral indicator.
	Pending DecisionKind = iota
	// Redirect means the caller must navigate to Decision.Target.
	Redirect
	// Allow means the protected view may render.
	Allow
)

func (k DecisionKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decision is the result of Authorize. Target is set only for Redirect.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Authorize is a pure function of the session snapshot and the role the view requires.
func Authorize(s domainauth.Session, required domainauth.Role) Decision {
	if s.Loading {
		return Decision{Kind: Pending}
	}
	if !s.IsAuthenticated || s.User == nil {
		return Decision{Kind: Redirect, Target: LoginPath}
	}
	if s.User.UserType != required {
		return Decision{Kind: Redirect, Target: LandingPath}
	}
	return Decision{Kind: Allow}
}
