package domain

import (
	"context"
	"time"
)

// Session is the per-visitor interactive session. It starts out anonymous,
// with no ID, and is only stored once a login succeeds.
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether a user has logged in on this session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Authenticated
}

// CurrentUser returns the logged-in username. ok is false for
// unauthenticated sessions.
func (s *Session) CurrentUser() (username string, ok bool) {
	if !s.IsAuthenticated() {
		return "", false
	}
	return s.Username, true
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}
