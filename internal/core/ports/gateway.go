package ports

import (
	"context"

	"github.com/uniblog/client/internal/core/domain"
)

// Gateway is the authenticated request gate in front of the resource
// server. It attaches the session's bearer token (an absent session is sent
// as no Authorization header, the server decides whether anonymous access
// is allowed) and classifies the outcome:
//
//   - 2xx            → the raw response body, possibly empty
//   - 401            → domain.Unauthorized
//   - other non-2xx  → domain.RequestFailed with the server's detail field
//   - no response    → domain.Unreachable
//
// The gate never mutates the credential store; reacting to a 401 is the
// caller's job.
type Gateway interface {
	// Do sends body as JSON, or form-encoded when body is a url.Values,
	// or no payload when body is nil.
	Do(ctx context.Context, method, path string, body any, sess domain.Session) ([]byte, error)
}
