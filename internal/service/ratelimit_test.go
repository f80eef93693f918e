package service_test

import (
	"sync"
	"testing"

	"github.com/msomdec/ekaksh/internal/service"
)

func newLimiter(t *testing.T, rate, capacity float64) *service.TokenBucket {
	t.Helper()
	tb := service.NewTokenBucket(rate, capacity)
	t.Cleanup(tb.Stop)
	return tb
}

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := newLimiter(t, 1, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow("203.0.113.7") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if tb.Allow("203.0.113.7") {
		t.Fatal("4th attempt should be denied")
	}
}

func TestTokenBucket_ClientsAreIndependent(t *testing.T) {
	tb := newLimiter(t, 1, 1)

	if !tb.Allow("198.51.100.1") {
		t.Fatal("first client should be allowed")
	}
	if tb.Allow("198.51.100.1") {
		t.Fatal("first client should now be limited")
	}
	if !tb.Allow("198.51.100.2") {
		t.Fatal("second client has its own bucket")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	tb := newLimiter(t, 0, 2)

	tb.Allow("k")
	tb.Allow("k")
	if tb.Allow("k") {
		t.Fatal("third attempt should be denied")
	}
}

func TestTokenBucket_ConcurrentAllow(t *testing.T) {
	tb := newLimiter(t, 0, 10)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tb.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Fatalf("expected exactly 10 allowed attempts, got %d", allowed)
	}
}
