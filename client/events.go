package client

import "sync"

// Event names the cross-component signals the core uses.
type Event string

const (
	// EventLocationUpdated fires after a position fix reached the server.
	// The feed subscribes to refresh its candidate pool.
	EventLocationUpdated Event = "location_updated"

	// EventContextChanged fires after the selected dater changed. The feed
	// and match list re-scope to the new acting context.
	EventContextChanged Event = "context_changed"
)

// Bus is a small publish/subscribe channel scoped to one client instance.
// Handlers run synchronously on the publishing goroutine; subscribers doing
// I/O are expected to hand off to their own goroutine.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Event]map[int]func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Event]map[int]func())}
}

// Subscribe registers fn for ev and returns an unsubscribe func.
func (b *Bus) Subscribe(ev Event, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[ev] == nil {
		b.subs[ev] = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.subs[ev][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[ev], id)
	}
}

// Publish invokes every handler registered for ev.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]func(), 0, len(b.subs[ev]))
	for _, fn := range b.subs[ev] {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
