package timing

import "sync"

// WaitSignal is the cooperative condition variable spec.md §9 asks for in
// place of the source's paired Promise/resolver: one sender, one
// receiver, single-shot. Every Wait blocks on the signal's current
// channel: a second Wait before a Proceed blocks on that same channel
// rather than starting a fresh one, and the next Proceed releases both.
// Double-Proceed
// without an intervening Wait is a caller error; Proceed is then a no-op
// rather than a panic, since the core must never crash on a scheduling
// mistake it can route through coreerr instead.
type WaitSignal struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewWaitSignal returns an armed, unresolved wait-signal.
func NewWaitSignal() *WaitSignal {
	return &WaitSignal{ch: make(chan struct{})}
}

// Wait blocks until the next Proceed call resolves this signal's current
// channel.
func (w *WaitSignal) Wait() {
	w.mu.Lock()
	ch := w.ch
	w.mu.Unlock()
	<-ch
}

// Proceed resolves the current waiter, if any, and arms a fresh channel
// for the next Wait.
func (w *WaitSignal) Proceed() {
	w.mu.Lock()
	old := w.ch
	w.ch = make(chan struct{})
	w.mu.Unlock()
	close(old)
}
