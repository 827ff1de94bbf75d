package ports

import (
	"context"
	"time"

	"github.com/uniblog/client/internal/core/domain"
)

// SessionService owns the credential lifecycle: it is the only writer of
// the credential store (login success, logout, unauthorized reaction) and
// the only emitter of session signals.
type SessionService interface {
	// Login exchanges credentials for a bearer token, saves it, then
	// emits SignalLogin. Nothing is saved or emitted on failure.
	Login(ctx context.Context, email, password string) error

	// Register creates an account. It does not authenticate; the caller
	// logs in afterwards.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Logout clears the credential store, then emits SignalLogout, in
	// that order: every handler observing the store sees an absent
	// session.
	Logout() error

	// Current re-reads the credential store. Callers must not cache the
	// result beyond one use.
	Current() domain.Session

	// HandleUnauthorized is the mandated reaction to a 401 from any
	// gated call: clear the store, then emit SignalLogout.
	HandleUnauthorized()

	// Expiry reports the token's expiry when it can be determined.
	Expiry(sess domain.Session) (time.Time, bool)
}
