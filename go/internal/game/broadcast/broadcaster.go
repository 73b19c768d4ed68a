// Package broadcast fans post-mutation session snapshots out to everything
// watching a session code. The in-process Broadcaster is the default; the
// JetStream publisher is the drop-in replacement when gateways run in other
// processes.
package broadcast

import "github.com/mcdev12/outbreak/go/internal/game/events"

// Handler receives one event. Handlers must not block: delivery happens on
// the publisher's goroutine and a stalled handler stalls no one else only
// because implementations drop rather than wait.
type Handler func(ev events.Event)

// Publisher is what the game app needs: fire-and-forget delivery of an
// event to every subscriber of a code. Publishing never fails the mutation
// that produced the event.
type Publisher interface {
	Publish(code string, ev events.Event)
}

// Broadcaster is a Publisher that also manages local subscriptions.
type Broadcaster interface {
	Publisher

	// Subscribe registers a handler for a code and returns its
	// unsubscribe function.
	Subscribe(code string, h Handler) (unsubscribe func())
}
