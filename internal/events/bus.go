package events

import (
	"sync"
	"time"
)

const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
)

type Event struct {
	Name    string
	At      time.Time
	Payload interface{}
}

// Bus is an in-process fan-out channel keyed by event name. Publish is
// fire-and-forget and at-most-once: a subscriber that cannot keep up loses
// events rather than blocking the publisher. There is no ordering guarantee
// across independent subscribers and no redelivery.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a buffered channel for the named event. The returned
// cancel func removes the subscription and closes the channel; it is safe
// to call more than once.
func (b *Bus) Subscribe(name string, buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[name] == nil {
		b.subs[name] = make(map[int]chan Event)
	}
	b.subs[name][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[name], id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Bus) Publish(name string, payload interface{}) {
	ev := Event{Name: name, At: time.Now().UTC(), Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[name] {
		select {
		case ch <- ev:
		default:
			// subscriber lagging, drop
		}
	}
}
