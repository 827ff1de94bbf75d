package ports

import "github.com/uniblog/client/internal/core/domain"

// CredentialStore holds the bearer token and its type in per-user durable
// storage. It is the sole source of truth for "is a session active" and has
// no side effect beyond the store itself; signal emission is the caller's
// responsibility.
type CredentialStore interface {
	// Save persists both values atomically: a reader never observes the
	// token without its type.
	Save(token, tokenType string) error

	// Read returns the stored pair with Present=true, or a zero session
	// with Present=false when nothing is stored. Absence is a normal,
	// representable state, not an error.
	Read() (domain.Session, error)

	// Clear removes both values. Clearing an already-empty store is a
	// no-op.
	Clear() error
}
