// Package events provides a publish-subscribe fan-out of sensor state
// snapshots, used for SSE delivery.
package events

import (
	"sync"

	"github.com/openhwmon/nct7904-go/internal/models"
)

const subBufferSize = 8

// Bus is a non-blocking publish-subscribe bus. Subscribers that are
// slow to consume snapshots have them dropped rather than blocking the
// poll loop.
type Bus struct {
	mu   sync.Mutex
	subs map[string]chan models.State
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan models.State),
	}
}

// Subscribe creates a new subscription with the given ID. The returned
// channel receives state snapshots. Call Unsubscribe when done.
func (b *Bus) Subscribe(id string) <-chan models.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan models.State, subBufferSize)
	b.subs[id] = ch
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish sends a snapshot to all subscribers. A full subscriber
// channel drops the snapshot instead of blocking the poll loop.
func (b *Bus) Publish(state models.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- state:
		default:
			// Drop if subscriber is slow
		}
	}
}

// Close drops every subscription and closes its channel. Used at
// daemon shutdown so SSE handlers unwind.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
