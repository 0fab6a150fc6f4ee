// Package notifier carries the cart-updated invalidation signal between
// independently running parts of the storefront. The signal has no
// payload: subscribers react by re-fetching whatever they display.
package notifier

import "sync"

// Bus is a process-wide publish/subscribe channel for the cart-updated
// signal.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscription is one listener. C receives a signal per publish and is
// closed by Unsubscribe, so a draining goroutine exits cleanly.
type Subscription struct {
	C    chan struct{}
	bus  *Bus
	once sync.Once
}

// NewBus builds an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a listener. The caller must Unsubscribe when its
// owner goes away; dangling listeners are a leak.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{C: make(chan struct{}, 1), bus: b}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish signals every subscriber without blocking. A subscriber that
// already has a pending signal is skipped; one "re-check" is as good as
// two.
func (b *Bus) Publish() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		select {
		case sub.C <- struct{}{}:
		default:
		}
	}
}

// Unsubscribe removes the listener and closes its channel. Safe to call
// more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		close(s.C)
		s.bus.mu.Unlock()
	})
}
