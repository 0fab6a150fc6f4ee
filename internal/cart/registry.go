package cart

import (
	"context"
	"log"
	"sync"
)

// Registry hands out one Store per user, created lazily on first use.
// Stores live for the process lifetime; the backend remains the arbiter
// of the persisted cart across processes and tabs.
type Registry struct {
	gw     Gateway
	bus    Publisher
	logger *log.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry builds an empty registry.
func NewRegistry(gw Gateway, bus Publisher, logger *log.Logger) *Registry {
	return &Registry{
		gw:     gw,
		bus:    bus,
		logger: logger,
		stores: make(map[string]*Store),
	}
}

// For returns the store for userID. An empty userID gets a throwaway
// anonymous store that serves an empty cart.
func (r *Registry) For(userID string) *Store {
	if userID == "" {
		return NewStore("", r.gw, r.bus, r.logger)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[userID]
	if !ok {
		store = NewStore(userID, r.gw, r.bus, r.logger)
		r.stores[userID] = store
	}
	return store
}

// Count re-fetches and returns the server-authoritative item count for
// userID. It is the badge's load-equivalent fetch.
func (r *Registry) Count(ctx context.Context, userID string) (int, error) {
	cart, err := r.For(userID).Load(ctx)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// Evict drops the store for userID, used on logout so a later sign-in
// starts from a clean reconcile.
func (r *Registry) Evict(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}
