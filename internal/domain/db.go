package domain

import "context"

// Database is the lifecycle surface of a credential store backend. SQLite
// and Postgres each carry their own migrations.
type Database interface {
	Migrate(ctx context.Context) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
