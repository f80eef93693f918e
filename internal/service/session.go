package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/ekaksh/internal/domain"
)

// SessionService manages per-visitor sessions and the signed cookie token
// that identifies them.
type SessionService struct {
	store     domain.SessionStore
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionService creates a new SessionService. A ttl of zero means
// sessions never expire.
func NewSessionService(store domain.SessionStore, jwtSecret string, ttl time.Duration) *SessionService {
	return &SessionService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Start returns the stored session with the given id. An empty or unknown
// id yields an anonymous session that has no id and is not stored; only
// MarkAuthenticated persists a session. Start never mutates state, so
// calling it again with the same id returns the same session.
func (s *SessionService) Start(ctx context.Context, id string) (*domain.Session, error) {
	if id != "" {
		sess, err := s.store.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get session: %w", err)
		}
	}
	return &domain.Session{CreatedAt: s.now()}, nil
}

// MarkAuthenticated records a successful login on sess. The session is
// moved to a new id; callers must reissue the cookie token.
func (s *SessionService) MarkAuthenticated(ctx context.Context, sess *domain.Session, username string) error {
	if sess == nil {
		return fmt.Errorf("%w: nil session", domain.ErrInvalidInput)
	}

	oldID := sess.ID
	now := s.now()
	sess.ID = uuid.NewString()
	sess.Authenticated = true
	sess.Username = username
	sess.ExpiresAt = s.expiry(now)

	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if oldID != "" {
		if err := s.store.Delete(ctx, oldID); err != nil {
			return fmt.Errorf("delete previous session: %w", err)
		}
	}
	return nil
}

// End deletes the session. Ending an unknown session is not an error.
func (s *SessionService) End(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// IssueToken signs a cookie token whose subject is the session id.
// Anonymous sessions have no token.
func (s *SessionService) IssueToken(sess *domain.Session) (string, error) {
	if sess == nil || sess.ID == "" {
		return "", fmt.Errorf("%w: session is not stored", domain.ErrInvalidInput)
	}
	claims := jwt.RegisteredClaims{
		Subject:  sess.ID,
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	if !sess.ExpiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(sess.ExpiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates a cookie token and returns the session id it
// carries. Any invalid, expired or foreign token yields ErrUnauthorized.
func (s *SessionService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}

func (s *SessionService) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}
