package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain"
)

// ErrNoRedirectURL is a checkout-session response without a usable url.
// It is retryable; the caller's cart stays intact.
var ErrNoRedirectURL = errors.New("checkout session response missing redirect url")

// CreateCheckoutSession asks the backend to open a hosted payment session
// for the given cart snapshot and returns the redirect target.
func (c *Client) CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/transactions/create-checkout-session", req, &session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(session.URL) == "" {
		return nil, ErrNoRedirectURL
	}
	return &session, nil
}
