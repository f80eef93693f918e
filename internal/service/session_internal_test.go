package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/ekaksh/internal/domain"
	"github.com/msomdec/ekaksh/internal/repository/memory"
)

func TestSessionService_TokenExpires(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := NewSessionService(memory.NewSessionStore(), "test-secret-key-for-unit-tests-0123456789", time.Hour)
	s.now = clock.Now

	sess, err := s.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.MarkAuthenticated(context.Background(), sess, "alice"); err != nil {
		t.Fatalf("MarkAuthenticated: %v", err)
	}
	token, err := s.IssueToken(sess)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	clock.Advance(59 * time.Minute)
	if _, err := s.ParseToken(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	clock.Advance(2 * time.Minute)
	if _, err := s.ParseToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
}

func TestSessionService_ZeroTTLNeverExpires(t *testing.T) {
	s := NewSessionService(memory.NewSessionStore(), "test-secret-key-for-unit-tests-0123456789", 0)

	sess, err := s.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.MarkAuthenticated(context.Background(), sess, "alice"); err != nil {
		t.Fatalf("MarkAuthenticated: %v", err)
	}
	if !sess.ExpiresAt.IsZero() {
		t.Fatalf("expected no expiry, got %v", sess.ExpiresAt)
	}
	token, err := s.IssueToken(sess)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := s.ParseToken(token); err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
}
