package broadcast

import (
	"sync"

	"github.com/mcdev12/outbreak/go/internal/game/events"
	"github.com/rs/zerolog/log"
)

// Local is the in-process Broadcaster: a per-code set of handlers guarded by
// one RWMutex. Subscribe/unsubscribe on connect and disconnect race freely
// with Publish without ever blocking the session mutation path.
type Local struct {
	mu   sync.RWMutex
	subs map[string]map[int]Handler
	next int
}

// NewLocal creates an empty in-process broadcaster.
func NewLocal() *Local {
	return &Local{subs: make(map[string]map[int]Handler)}
}

var _ Broadcaster = (*Local)(nil)

func (b *Local) Subscribe(code string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[code] == nil {
		b.subs[code] = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.subs[code][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if handlers, ok := b.subs[code]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subs, code)
			}
		}
	}
}

func (b *Local) Publish(code string, ev events.Event) {
	// Snapshot the handler set so delivery happens without the lock.
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[code]))
	for _, h := range b.subs[code] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}

	log.Debug().
		Str("code", code).
		Str("event_type", string(ev.Type)).
		Int("subscribers", len(handlers)).
		Msg("event broadcast")
}

// SubscriberCount returns how many handlers watch a code.
func (b *Local) SubscriberCount(code string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[code])
}
