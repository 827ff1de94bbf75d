package service

import "github.com/uniblog/client/internal/core/domain"

// Decision is the navigation guard's verdict for a session.
type Decision int

const (
	// Proceed: the session is present, the caller may continue.
	Proceed Decision = iota
	// RedirectToAuth: no session, the caller must send the user to the
	// authentication entry point.
	RedirectToAuth
)

func (d Decision) String() string {
	if d == RedirectToAuth {
		return "redirect_to_auth"
	}
	return "proceed"
}

// Enforce decides whether a session may reach protected resources. It is a
// pure function over the session value: callers reacting to a 401 must run
// SessionService.HandleUnauthorized first and pass a freshly re-read
// session, so a redirect target checking presence never sees a stale
// logged-in state.
func Enforce(sess domain.Session) Decision {
	if !sess.Present {
		return RedirectToAuth
	}
	return Proceed
}
