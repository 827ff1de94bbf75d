package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uniblog/client/internal/core/domain"
)

// Expiry reports when the session's token expires, when that can be
// determined. The token is contractually opaque, but the resource server
// issues HS256 JWTs carrying an exp claim, so a best-effort unverified
// parse lets the UI warn before a doomed request. Verification stays the
// server's job; a malformed token means "expiry unknown", never an error.
func (s *SessionService) Expiry(sess domain.Session) (time.Time, bool) {
	if !sess.Present {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sess.Token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
