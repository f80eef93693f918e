package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/ekaksh/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: is a fresh database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	ran, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("first migration run: %v", err)
	}
	if len(ran) == 0 {
		t.Fatal("expected at least one migration to be applied")
	}

	// The users table exists and enforces the username constraint.
	_, err = db.ExecContext(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", "alice", "hash123")
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	_, err = db.ExecContext(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", "alice", "other")
	if err == nil {
		t.Fatal("expected unique constraint violation for duplicate username")
	}
	_, err = db.ExecContext(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", "", "hash")
	if err == nil {
		t.Fatal("expected check constraint violation for empty username")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	first, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected no migrations on second run, got %v", second)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != len(first) {
		t.Fatalf("expected %d migration records, got %d", len(first), count)
	}
}
