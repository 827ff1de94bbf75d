package domain

import (
	"errors"
	"fmt"
)

// ErrNoSnapshot indicates a mutator ran before any profile load completed.
// This is a programming-contract violation, not a user-facing condition.
var ErrNoSnapshot = errors.New("no profile snapshot loaded")

// FailureKind classifies an expected failure into the minimum split callers
// need: each kind demands a different reaction (forced re-authentication,
// inline message, retry affordance, or fixing the input locally).
type FailureKind string

const (
	// FailureUnauthorized: the server rejected the credential (HTTP 401).
	// The caller must clear the credential store and re-authenticate.
	FailureUnauthorized FailureKind = "unauthorized"
	// FailureRequest: the server rejected the request for a business or
	// validation reason; Detail is surfaced to the user verbatim.
	FailureRequest FailureKind = "request_failed"
	// FailureUnreachable: no response was received at all.
	FailureUnreachable FailureKind = "unreachable"
	// FailureLocalValidation: the input was rejected before any network
	// call, the cheapest failure path.
	FailureLocalValidation FailureKind = "local_validation"
)

// Failure is the discriminated error returned by the request gate and the
// services for every expected failure category.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Detail     string
	cause      error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureUnauthorized:
		return "unauthorized"
	case FailureRequest:
		return fmt.Sprintf("request failed (%d): %s", f.StatusCode, f.Detail)
	case FailureUnreachable:
		if f.cause != nil {
			return fmt.Sprintf("server unreachable: %v", f.cause)
		}
		return "server unreachable"
	case FailureLocalValidation:
		return f.Detail
	}
	return string(f.Kind)
}

func (f *Failure) Unwrap() error { return f.cause }

// Unauthorized builds the failure for an HTTP 401 response.
func Unauthorized() *Failure {
	return &Failure{Kind: FailureUnauthorized, StatusCode: 401}
}

// RequestFailed builds the failure for any other non-2xx response. An empty
// detail falls back to a generic message carrying the status code.
func RequestFailed(statusCode int, detail string) *Failure {
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", statusCode)
	}
	return &Failure{Kind: FailureRequest, StatusCode: statusCode, Detail: detail}
}

// Unreachable builds the failure for a transport-level error.
func Unreachable(cause error) *Failure {
	return &Failure{Kind: FailureUnreachable, cause: cause}
}

// LocalValidation builds the failure for input rejected before any network
// call.
func LocalValidation(detail string) *Failure {
	return &Failure{Kind: FailureLocalValidation, Detail: detail}
}

func kindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// IsUnauthorized reports whether err carries an unauthorized failure.
func IsUnauthorized(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureUnauthorized
}

// IsRequestFailed reports whether err carries a server-side rejection.
func IsRequestFailed(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureRequest
}

// IsUnreachable reports whether err carries a transport failure.
func IsUnreachable(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureUnreachable
}

// IsLocalValidation reports whether err carries a pre-network rejection.
func IsLocalValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureLocalValidation
}
