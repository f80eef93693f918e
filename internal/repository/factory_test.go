package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/ekaksh/internal/config"
	"github.com/msomdec/ekaksh/internal/domain"
	"github.com/msomdec/ekaksh/internal/repository"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := repository.Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "factory.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.DB.Close() })

	require.NoError(t, store.DB.Migrate(ctx))
	require.NoError(t, store.Users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash"}))

	found, err := store.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := repository.Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
}

func TestOpenSessions(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := repository.OpenSessions(config.SessionConfig{Store: config.SessionStoreMemory})
		require.NoError(t, err)
		require.NotNil(t, store)
		require.NoError(t, closeFn())
	})

	t.Run("redis", func(t *testing.T) {
		mini := miniredis.RunT(t)
		store, closeFn, err := repository.OpenSessions(config.SessionConfig{
			Store:    config.SessionStoreRedis,
			RedisURL: "redis://" + mini.Addr(),
		})
		require.NoError(t, err)
		require.NotNil(t, store)
		require.NoError(t, closeFn())
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := repository.OpenSessions(config.SessionConfig{Store: "disk"})
		require.Error(t, err)
	})
}
