package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated is returned when a cart or checkout operation
	// requires a signed-in user and none is present. It fails before any
	// network call is made.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrEmptyCart rejects checkout initiation for a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity rejects quantity values below one; removal is a
	// separate operation, never a zero write.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrGatewayUnavailable covers network failures and an open circuit
	// breaker between the storefront and the backend.
	ErrGatewayUnavailable = errors.New("backend unavailable")
	// ErrCheckoutInProgress rejects a second Initiate on an attempt that
	// is already requesting or redirecting.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)
