package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/ekaksh/internal/domain"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := &domain.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "s1" || got.IsAuthenticated() {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSessionStore_GetReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_ = store.Save(ctx, &domain.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)})

	got, _ := store.Get(ctx, "s1")
	got.Authenticated = true
	got.Username = "mallory"

	again, _ := store.Get(ctx, "s1")
	if again.IsAuthenticated() {
		t.Fatal("mutating a returned session must not change the stored one")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, &domain.Session{ID: "old", ExpiresAt: now.Add(-time.Second)})
	_ = store.Save(ctx, &domain.Session{ID: "live", ExpiresAt: now.Add(time.Hour)})

	if _, err := store.Get(ctx, "old"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}
	if _, err := store.Get(ctx, "live"); err != nil {
		t.Fatalf("Get live: %v", err)
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, &domain.Session{ID: "a", ExpiresAt: now.Add(-time.Minute)})
	_ = store.Save(ctx, &domain.Session{ID: "b", ExpiresAt: now.Add(-time.Hour)})
	_ = store.Save(ctx, &domain.Session{ID: "c", ExpiresAt: now.Add(time.Hour)})

	if removed := store.Sweep(); removed != 2 {
		t.Fatalf("expected 2 sessions swept, got %d", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 remaining session, got %d", store.Len())
	}
}
