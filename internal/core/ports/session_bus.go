package ports

import "github.com/uniblog/client/internal/core/domain"

// SessionBus broadcasts session signals to components with no structural
// relationship to each other. Delivery is synchronous, on the emitting
// goroutine, in subscriber-registration order. Signals carry no payload:
// handlers re-read the credential store.
type SessionBus interface {
	Emit(signal domain.Signal)

	// Subscribe registers handler for signal and returns an idempotent
	// unsubscribe closure. Components must unsubscribe when their mount
	// ends so handlers never run against torn-down state.
	Subscribe(signal domain.Signal, handler func()) (unsubscribe func())
}
