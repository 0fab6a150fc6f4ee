package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
)

// Manager issues and validates session tokens around a Repository.
type Manager struct {
	repo Repository
	ttl  time.Duration
}

// NewManager builds a Manager with the given session lifetime.
func NewManager(repo Repository, ttl time.Duration) *Manager {
	return &Manager{repo: repo, ttl: ttl}
}

// Issue stores the backend-issued user object under a fresh opaque token
// and returns the token for the cookie.
func (m *Manager) Issue(ctx context.Context, user domain.User) (string, error) {
	expiresAt := time.Now().Add(m.ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, Session{
			Token:     token,
			User:      user,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("session token collision")
}

// Lookup resolves a token to its user. Expired sessions are deleted on
// read and reported as not logged in.
func (m *Manager) Lookup(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	s, err := m.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if time.Now().After(s.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return nil, domain.ErrUnauthenticated
	}
	user := s.User
	return &user, nil
}

// Revoke deletes a session, used on logout. Revoking an unknown token is
// not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// TTLSeconds exposes the session lifetime for the cookie max-age.
func (m *Manager) TTLSeconds() int {
	return int(m.ttl.Seconds())
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
