package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain"
)

// wireUser accepts the identity and role spellings the backend has used
// over time and normalizes them to one User shape.
type wireUser struct {
	ID       string `json:"id"`
	AltID    string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (w wireUser) normalize() (domain.User, error) {
	id := firstNonEmpty(w.ID, w.AltID)
	if id == "" {
		return domain.User{}, errors.New("user missing id")
	}
	return domain.User{
		ID:    id,
		Name:  firstNonEmpty(w.Name, w.Username),
		Email: w.Email,
		Admin: w.IsAdmin || strings.EqualFold(w.Role, "admin"),
	}, nil
}

// LoginInput carries credentials to the backend's login endpoint.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for the backend's user object. The
// storefront persists that object in its session store; it never sees a
// password hash.
func (c *Client) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	return c.authCall(ctx, "/auth/login", in)
}

// Register creates an account and returns the resulting user object.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return c.authCall(ctx, "/auth/register", in)
}

func (c *Client) authCall(ctx context.Context, path string, body interface{}) (*domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, body, &raw); err != nil {
		return nil, err
	}

	payload := unwrapData(raw)
	// Some backend versions nest the user under {user: {...}}.
	var envelope struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.User) > 0 {
		payload = envelope.User
	}

	var wire wireUser
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("decode user from %s: %w", path, err)
	}
	user, err := wire.normalize()
	if err != nil {
		return nil, err
	}
	return &user, nil
}
