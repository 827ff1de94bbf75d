package domain

// Session is the client's view of the stored credential. Present is true
// iff a non-empty token exists in the credential store at read time; it must
// be re-read before every use because any component may mutate the store.
type Session struct {
	Token     string
	TokenType string
	Present   bool
}

// Signal is a payload-less broadcast event. Handlers re-read the credential
// store for current state instead of trusting the signal itself, so racing
// emissions cannot deliver stale data.
type Signal string

const (
	// SignalLogin fires after a credential has been saved.
	SignalLogin Signal = "login"
	// SignalLogout fires after the credential store has been cleared.
	SignalLogout Signal = "logout"
)
