// Package g15api is a thin HTTP/websocket telemetry surface for host
// applications embedding the core: a health check, a point-in-time status
// snapshot, and a websocket stream of the same snapshot taken once per
// publish interval. Modeled on the teacher repo's api/broadcaster.go fan-out pattern,
// reduced to the one event type this core actually needs to publish
// (spec.md §6 "External interfaces").
package g15api

import "sync"

// StatusEvent is one telemetry snapshot (spec.md §3 "Registers" plus the
// I/O subsystem's lifecycle state). MQ/ID/PN are double-precision (2-word)
// registers, reported as their even/odd halves.
type StatusEvent struct {
	L       uint8     `json:"l"`
	AR      uint32    `json:"ar"`
	MQ      [2]uint32 `json:"mq"`
	ID      [2]uint32 `json:"id"`
	PN      [2]uint32 `json:"pn"`
	Halted  bool      `json:"halted"`
	IOState string    `json:"ioState"`
	IOCode  uint8     `json:"ioCode"`
}

// Broadcaster fans StatusEvents out to any number of websocket clients.
// Registration/unregistration and broadcast all go through one goroutine's
// channel selects, exactly as the teacher's api.Broadcaster does.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[chan StatusEvent]bool
	broadcast     chan StatusEvent
	register      chan chan StatusEvent
	unregister    chan chan StatusEvent
	done          chan struct{}
}

// NewBroadcaster creates and starts a broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[chan StatusEvent]bool),
		broadcast:     make(chan StatusEvent, 256),
		register:      make(chan chan StatusEvent),
		unregister:    make(chan chan StatusEvent),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case ch := <-b.register:
			b.mu.Lock()
			b.subscriptions[ch] = true
			b.mu.Unlock()

		case ch := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[ch] {
				delete(b.subscriptions, ch)
				close(ch)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for ch := range b.subscriptions {
				select {
				case ch <- event:
				default:
					// slow client: drop this snapshot rather than stall the core
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for ch := range b.subscriptions {
				close(ch)
			}
			b.subscriptions = make(map[chan StatusEvent]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe returns a channel that receives every broadcast StatusEvent
// until Unsubscribe is called.
func (b *Broadcaster) Subscribe() chan StatusEvent {
	ch := make(chan StatusEvent, 16)
	b.register <- ch
	return ch
}

// Unsubscribe stops and closes ch.
func (b *Broadcaster) Unsubscribe(ch chan StatusEvent) {
	b.unregister <- ch
}

// Publish sends event to every subscriber, without blocking the caller.
func (b *Broadcaster) Publish(event StatusEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// Close shuts the broadcaster down and closes all subscriptions.
func (b *Broadcaster) Close() { close(b.done) }
