package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/msomdec/ekaksh/internal/domain"
)

type SessionStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *SessionStore
	ctx   context.Context
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.store = NewWithClient(client)
	s.ctx = context.Background()
}

func (s *SessionStoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *SessionStoreSuite) TestSaveAndGet() {
	sess := &domain.Session{
		ID:            "sess-1",
		Authenticated: true,
		Username:      "alice",
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		ExpiresAt:     time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}

	s.Require().NoError(s.store.Save(s.ctx, sess))

	got, err := s.store.Get(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.True(got.IsAuthenticated())
	s.True(sess.ExpiresAt.Equal(got.ExpiresAt))
}

func (s *SessionStoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *SessionStoreSuite) TestSaveSetsTTL() {
	sess := &domain.Session{ID: "sess-ttl", ExpiresAt: time.Now().Add(30 * time.Minute)}
	s.Require().NoError(s.store.Save(s.ctx, sess))

	ttl := s.mini.TTL(sessionKey("sess-ttl"))
	s.Greater(ttl, 29*time.Minute)
	s.LessOrEqual(ttl, 30*time.Minute)
}

func (s *SessionStoreSuite) TestEntryExpiresWithTTL() {
	sess := &domain.Session{ID: "sess-short", ExpiresAt: time.Now().Add(time.Minute)}
	s.Require().NoError(s.store.Save(s.ctx, sess))

	s.mini.FastForward(2 * time.Minute)

	_, err := s.store.Get(s.ctx, "sess-short")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *SessionStoreSuite) TestSaveAlreadyExpiredDeletes() {
	key := sessionKey("sess-stale")
	s.Require().NoError(s.store.Save(s.ctx, &domain.Session{ID: "sess-stale", ExpiresAt: time.Now().Add(time.Hour)}))
	s.True(s.mini.Exists(key))

	s.Require().NoError(s.store.Save(s.ctx, &domain.Session{ID: "sess-stale", ExpiresAt: time.Now().Add(-time.Second)}))
	s.False(s.mini.Exists(key))
}

func (s *SessionStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, &domain.Session{ID: "sess-del", ExpiresAt: time.Now().Add(time.Hour)}))
	s.Require().NoError(s.store.Delete(s.ctx, "sess-del"))

	_, err := s.store.Get(s.ctx, "sess-del")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *SessionStoreSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "not a url"})
	s.Error(err)
}

func (s *SessionStoreSuite) TestNewConnects() {
	store, err := New(Config{URL: "redis://" + s.mini.Addr()})
	s.Require().NoError(err)
	s.NoError(store.Close())
}
