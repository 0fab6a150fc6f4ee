// Package checkout converts a cart snapshot into one hosted payment
// attempt and hands the browser off to the provider's page.
package checkout

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// State is the lifecycle of one checkout attempt. Redirecting is terminal
// for the page that started the attempt; Failed allows retry. There is no
// succeeded state observable here: success is only known by the browser
// arriving back at the success URL.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateRedirecting State = "redirecting"
	StateFailed      State = "failed"
)

// Terminal reports whether the attempt can accept another Initiate.
func (s State) Terminal() bool {
	return s == StateRedirecting
}

// SessionCreator is the gateway slice the orchestrator needs.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (*domain.CheckoutSession, error)
}

// Orchestrator builds checkout attempts. It holds no per-attempt state
// itself; each page request gets its own Attempt.
type Orchestrator struct {
	gw         SessionCreator
	successURL string
	cancelURL  string
	logger     *log.Logger
}

// New builds an Orchestrator. publicBaseURL is this storefront's own
// origin; the provider redirects back to it after payment.
func New(gw SessionCreator, publicBaseURL string, logger *log.Logger) *Orchestrator {
	base := strings.TrimRight(publicBaseURL, "/")
	return &Orchestrator{
		gw:         gw,
		successURL: base + "/checkout/success",
		cancelURL:  base + "/checkout/cancel",
		logger:     logger,
	}
}

// Attempt is one checkout attempt's state machine:
// idle → requesting → {redirecting | failed}.
type Attempt struct {
	o      *Orchestrator
	id     string
	userID string

	mu    sync.Mutex
	state State
}

// NewAttempt starts an idle attempt for userID. The attempt id ties the
// provider session back to this storefront request in session metadata.
func (o *Orchestrator) NewAttempt(userID string) *Attempt {
	return &Attempt{o: o, id: uuid.NewString(), userID: userID, state: StateIdle}
}

// State returns the attempt's current state.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Initiate validates the snapshot, asks the backend for a hosted payment
// session, and returns the redirect URL. Validation failures happen
// before any network call. On any failure the attempt moves to Failed and
// may retry; the cart is never touched here — only the success landing
// clears it, so a cancelled or failed payment leaves the cart intact.
func (a *Attempt) Initiate(ctx context.Context, items []domain.CartItem) (string, error) {
	a.mu.Lock()
	if a.state.Terminal() || a.state == StateRequesting {
		a.mu.Unlock()
		return "", domain.ErrCheckoutInProgress
	}
	if a.userID == "" {
		a.state = StateFailed
		a.mu.Unlock()
		return "", domain.ErrUnauthenticated
	}
	if len(items) == 0 {
		a.state = StateFailed
		a.mu.Unlock()
		return "", domain.ErrEmptyCart
	}
	a.state = StateRequesting
	a.mu.Unlock()

	session, err := a.o.gw.CreateCheckoutSession(ctx, a.buildRequest(items))
	if err != nil {
		a.o.logger.Printf("checkout attempt %s for %s: %v", a.id, a.userID, err)
		a.setState(StateFailed)
		return "", err
	}

	a.setState(StateRedirecting)
	return session.URL, nil
}

func (a *Attempt) buildRequest(items []domain.CartItem) domain.CheckoutSessionRequest {
	lines := make([]domain.CheckoutLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.CheckoutLineItem{
			Name:       item.Name,
			Image:      item.Image,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
	}

	metadata := map[string]string{
		"userId":    a.userID,
		"attemptId": a.id,
	}
	if snapshot, err := json.Marshal(items); err == nil {
		metadata["products"] = string(snapshot)
	}

	return domain.CheckoutSessionRequest{
		UserID:     a.userID,
		Items:      lines,
		SuccessURL: a.o.successURL,
		CancelURL:  a.o.cancelURL,
		Metadata:   metadata,
	}
}

func (a *Attempt) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}
