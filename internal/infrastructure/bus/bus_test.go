package bus

import (
	"testing"

	"github.com/uniblog/client/internal/core/domain"
)

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		b.Subscribe(domain.SignalLogin, func() { order = append(order, i) })
	}

	b.Emit(domain.SignalLogin)

	if len(order) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(order))
	}
	for i, got := range order {
		if got != i+1 {
			t.Fatalf("delivery out of registration order: %v", order)
		}
	}
}

func TestEmitIsSynchronous(t *testing.T) {
	b := New()
	delivered := false
	b.Subscribe(domain.SignalLogout, func() { delivered = true })

	b.Emit(domain.SignalLogout)

	if !delivered {
		t.Fatalf("Emit must deliver before returning")
	}
}

func TestSignalsAreIndependent(t *testing.T) {
	b := New()
	var logins, logouts int
	b.Subscribe(domain.SignalLogin, func() { logins++ })
	b.Subscribe(domain.SignalLogout, func() { logouts++ })

	b.Emit(domain.SignalLogin)
	b.Emit(domain.SignalLogin)
	b.Emit(domain.SignalLogout)

	if logins != 2 || logouts != 1 {
		t.Fatalf("expected 2 logins / 1 logout, got %d / %d", logins, logouts)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	var first, second int
	unsubscribe := b.Subscribe(domain.SignalLogin, func() { first++ })
	b.Subscribe(domain.SignalLogin, func() { second++ })

	b.Emit(domain.SignalLogin)
	unsubscribe()
	b.Emit(domain.SignalLogin)

	if first != 1 {
		t.Fatalf("unsubscribed handler still invoked: %d", first)
	}
	if second != 2 {
		t.Fatalf("remaining handler dropped: %d", second)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New()
	var calls int
	stop := b.Subscribe(domain.SignalLogin, func() { calls++ })
	other := b.Subscribe(domain.SignalLogin, func() { calls++ })

	stop()
	stop()
	b.Emit(domain.SignalLogin)

	if calls != 1 {
		t.Fatalf("double unsubscribe must not remove other handlers, got %d calls", calls)
	}
	other()
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	b := New()
	var calls int
	var stop func()
	stop = b.Subscribe(domain.SignalLogout, func() {
		calls++
		stop()
	})

	b.Emit(domain.SignalLogout)
	b.Emit(domain.SignalLogout)

	if calls != 1 {
		t.Fatalf("handler unsubscribing itself must not run again, got %d", calls)
	}
}

func TestEmitWithoutSubscribers(t *testing.T) {
	b := New()
	b.Emit(domain.SignalLogin) // must not panic
}
