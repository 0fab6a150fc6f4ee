// Package session is the storefront's durable userInfo store: the
// server-side stand-in for the browser localStorage record the UI keys
// auth state on. The browser holds only an opaque cookie token.
package session

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// Session binds an opaque token to the backend-issued user object.
type Session struct {
	Token     string
	User      domain.User
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repository persists sessions.
type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
