// Package pointer fans pointer interactions out to interested listeners.
package pointer

import "sync"

// Region identifies where a pointer interaction happened
type Region string

const (
	RegionInput       Region = "input"
	RegionSuggestions Region = "suggestions"
	RegionOutside     Region = "outside"
)

// Source is something listeners can subscribe to for pointer interactions.
// The returned function removes the listener.
type Source interface {
	Subscribe(listener func(Region)) (unsubscribe func())
}

// Bus is an in-memory Source
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func(Region)
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]func(Region))}
}

// Subscribe registers a listener. Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(listener func(Region)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = listener
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers a pointer interaction to every current listener
func (b *Bus) Publish(region Region) {
	b.mu.RLock()
	listeners := make([]func(Region), 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.RUnlock()

	for _, l := range listeners {
		l(region)
	}
}

// Len returns the number of active listeners
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

var _ Source = (*Bus)(nil)
