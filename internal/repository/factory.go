// Package repository opens the configured credential store and session
// store backends.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/ekaksh/internal/config"
	"github.com/msomdec/ekaksh/internal/domain"
	"github.com/msomdec/ekaksh/internal/repository/memory"
	"github.com/msomdec/ekaksh/internal/repository/postgres"
	"github.com/msomdec/ekaksh/internal/repository/redis"
	"github.com/msomdec/ekaksh/internal/repository/sqlite"
)

// Store bundles a credential store with the database that backs it.
type Store struct {
	DB    domain.Database
	Users domain.UserRepository
}

// Open connects to the configured database. Migrations are not applied.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("using sqlite credential store", "path", cfg.Path)
		return &Store{DB: db, Users: db.Users()}, nil
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		slog.Info("using postgres credential store")
		return &Store{DB: db, Users: db.Users()}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

const sessionSweepInterval = 10 * time.Minute

// OpenSessions creates the configured session store. The returned close
// function releases any connection it holds.
func OpenSessions(cfg config.SessionConfig) (domain.SessionStore, func() error, error) {
	switch cfg.Store {
	case config.SessionStoreMemory:
		store := memory.NewSessionStore()
		stop := make(chan struct{})
		go sweepSessions(store, sessionSweepInterval, stop)
		return store, func() error { close(stop); return nil }, nil
	case config.SessionStoreRedis:
		rcfg := redis.DefaultConfig()
		rcfg.URL = cfg.RedisURL
		store, err := redis.New(rcfg)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using redis session store")
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// sweepSessions drops expired in-memory sessions until stop is closed.
func sweepSessions(store *memory.SessionStore, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				slog.Debug("expired sessions removed", "count", n)
			}
		case <-stop:
			return
		}
	}
}
