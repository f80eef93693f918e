package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/msomdec/ekaksh/internal/domain"
	"github.com/msomdec/ekaksh/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository_Create(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "hashedpw"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Username: "dup", PasswordHash: "hash1"}); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	err := repo.Create(ctx, &domain.User{Username: "dup", PasswordHash: "hash2"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUserRepository_UsernameIsCaseSensitive(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Username: "Bob", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create Bob: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	found, err := repo.FindByUsername(ctx, "BOB")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found != nil {
		t.Fatalf("expected no match for BOB, got %+v", found)
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	user := &domain.User{Username: "carol", PasswordHash: "hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.FindByUsername(ctx, "carol")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found == nil {
		t.Fatal("expected user, got nil")
	}
	if found.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, found.ID)
	}
	if found.PasswordHash != "hash" {
		t.Fatalf("expected stored hash, got %q", found.PasswordHash)
	}
}

func TestUserRepository_FindByUsername_Miss(t *testing.T) {
	repo := newTestDB(t).Users()

	found, err := repo.FindByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil user on miss, got %+v", found)
	}
}

func TestUserRepository_Create_ConcurrentSameUsername(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		duplicate int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &domain.User{Username: "racer", PasswordHash: fmt.Sprintf("hash-%d", i)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrDuplicateUsername):
				duplicate++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("expected exactly one successful create, got %d", created)
	}
	if duplicate != attempts-1 {
		t.Fatalf("expected %d duplicate errors, got %d", attempts-1, duplicate)
	}
}
