// Package cart holds the storefront-side source of truth for "what is in
// my cart right now", kept consistent with the backend by re-fetching
// after every confirmed mutation.
package cart

import (
	"context"
	"log"
	"sync"

	"storefront/internal/domain"
)

// Gateway is the slice of the remote gateway the store depends on.
type Gateway interface {
	FetchCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int) error
}

// Publisher broadcasts the payload-free cart-updated signal.
type Publisher interface {
	Publish()
}

// Store is the cart state for one user. All reads return snapshots;
// failed operations leave the visible state exactly as it was.
//
// Mutations are last-write-wins when issued concurrently; there is no
// client-side request queue, matching the backend's non-transactional
// cart API.
type Store struct {
	userID string
	gw     Gateway
	bus    Publisher
	logger *log.Logger

	mu    sync.Mutex
	items []domain.CartItem
}

// NewStore builds a store for one user. An empty userID yields a store
// that serves an empty cart and rejects mutations as unauthenticated.
func NewStore(userID string, gw Gateway, bus Publisher, logger *log.Logger) *Store {
	return &Store{userID: userID, gw: gw, bus: bus, logger: logger}
}

// Load fetches the authoritative cart and reconciles local state with it:
// quantities are clamped to [1, stock] and dead lines dropped. On fetch
// failure the caller gets an empty cart plus the error; browsing is never
// blocked by a cart-fetch failure.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	if s.userID == "" {
		return domain.Cart{}, nil
	}

	fetched, err := s.gw.FetchCart(ctx, s.userID)
	if err != nil {
		s.logger.Printf("load cart for %s: %v", s.userID, err)
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return domain.Cart{UserID: s.userID}, err
	}

	reconciled := make([]domain.CartItem, 0, len(fetched.Items))
	for _, item := range fetched.Items {
		if item.Stock < 1 || item.Quantity < 1 {
			continue
		}
		if item.Quantity > item.Stock {
			item.Quantity = item.Stock
		}
		reconciled = append(reconciled, item)
	}

	s.mu.Lock()
	s.items = reconciled
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// AddItem persists an add-to-cart action, then reconciles from the server
// and emits cart-updated. Requires a signed-in user; failing that is an
// error before any network call.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if s.userID == "" {
		return domain.ErrUnauthenticated
	}
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	if err := s.gw.AddToCart(ctx, s.userID, productID, quantity); err != nil {
		return err
	}
	if _, err := s.Load(ctx); err != nil {
		// The add is persisted; the next reconcile catches up.
		s.logger.Printf("reconcile after add for %s: %v", s.userID, err)
	}
	s.bus.Publish()
	return nil
}

// SetQuantity clamps the requested quantity to [1, stock] and applies it
// optimistically, confirming with the server afterwards. On a failed
// confirm the prior quantity is restored and the error returned. Values
// below 1 are rejected; RemoveItem is the delete path.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if s.userID == "" {
		return domain.ErrUnauthenticated
	}
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	item := s.items[idx]
	if item.Stock > 0 && quantity > item.Stock {
		quantity = item.Stock
	}
	prior := item.Quantity
	s.items[idx].Quantity = quantity
	s.mu.Unlock()
	s.bus.Publish()

	if err := s.gw.UpdateCartQuantity(ctx, s.userID, productID, quantity); err != nil {
		s.mu.Lock()
		if idx := s.indexOf(productID); idx >= 0 {
			s.items[idx].Quantity = prior
		}
		s.mu.Unlock()
		s.bus.Publish()
		return err
	}
	return nil
}

// RemoveItem deletes one line, server first. Local state changes only
// after the backend confirms.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	if s.userID == "" {
		return domain.ErrUnauthenticated
	}

	if err := s.gw.RemoveFromCart(ctx, s.userID, productID); err != nil {
		return err
	}

	s.mu.Lock()
	if idx := s.indexOf(productID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	s.mu.Unlock()
	s.bus.Publish()
	return nil
}

// Clear empties local state unconditionally and emits cart-updated. No
// server round-trip: the backend empties the persisted cart on order
// completion independently.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.bus.Publish()
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return domain.Cart{UserID: s.userID, Items: items}
}

// Count is the displayed item count.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalCents is the derived subtotal, recomputed on read.
func (s *Store) TotalCents() int64 {
	return s.Snapshot().TotalCents()
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(productID string) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
