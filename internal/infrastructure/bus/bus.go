// Package bus implements the in-process session signal broadcast. It exists
// because the components that react to login state (navigation, dashboard)
// share no ancestor: a two-signal pub/sub channel is the smallest mechanism
// that keeps them consistent.
package bus

import (
	"sync"

	"github.com/uniblog/client/internal/core/domain"
)

type subscriber struct {
	id      uint64
	handler func()
}

// Bus delivers signals synchronously on the emitting goroutine, in
// subscriber-registration order within one emission. No ordering holds
// between independent emissions; handlers must treat the credential store,
// not the signal, as authoritative.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[domain.Signal][]subscriber
}

func New() *Bus {
	return &Bus{subs: make(map[domain.Signal][]subscriber)}
}

// Subscribe registers handler for signal and returns an idempotent
// unsubscribe closure.
func (b *Bus) Subscribe(signal domain.Signal, handler func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[signal] = append(b.subs[signal], subscriber{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[signal]
		for i, sub := range list {
			if sub.id == id {
				b.subs[signal] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit invokes every handler registered for signal. Handlers run outside
// the bus lock over a snapshot of the subscriber list, so subscribing or
// unsubscribing from within a handler is safe and takes effect on the next
// emission.
func (b *Bus) Emit(signal domain.Signal) {
	b.mu.Lock()
	list := append([]subscriber(nil), b.subs[signal]...)
	b.mu.Unlock()

	for _, sub := range list {
		sub.handler()
	}
}
