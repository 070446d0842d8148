package ratelimiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/pkg/ratelimiter"
)

func TestLimiter_ConcurrentSafety(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	limiter, err := ratelimiter.NewLimiter(store, ratelimiter.Config{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	})
	require.NoError(t, err)

	t.Run("concurrent failures same identity", func(t *testing.T) {
		goroutines := 50

		var wg sync.WaitGroup
		wg.Add(goroutines)

		for range goroutines {
			go func() {
				defer wg.Done()
				_ = limiter.RecordFailure(ctx, "1.2.3.4", "alice")
			}()
		}
		wg.Wait()

		// Many simultaneous failures must deny decisively; the window can
		// never undercount recorded failures.
		ok, err := limiter.Allow(ctx, "1.2.3.4", "alice")
		require.NoError(t, err)
		assert.False(t, ok)

		remaining, err := limiter.Remaining(ctx, "1.2.3.4", "alice")
		require.NoError(t, err)
		assert.Zero(t, remaining)
	})

	t.Run("concurrent allow and record", func(t *testing.T) {
		goroutines := 50

		var wg sync.WaitGroup
		wg.Add(goroutines * 2)

		var denied atomic.Int64

		for i := range goroutines {
			go func() {
				defer wg.Done()
				ok, err := limiter.Allow(ctx, "8.8.8.8", "bob")
				if err == nil && !ok {
					denied.Add(1)
				}
			}()
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					_ = limiter.RecordFailure(ctx, "8.8.8.8", "bob")
				} else {
					_ = limiter.RecordSuccess(ctx, "8.8.8.8", "bob")
				}
			}(i)
		}
		wg.Wait()

		// No assertion on exact counts under interleaving; the test exists
		// to run the limiter under the race detector.
	})
}

func TestMemoryStore_ConcurrentKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	keys := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for _, key := range keys {
		for range 25 {
			wg.Add(2)
			go func(key string) {
				defer wg.Done()
				_ = store.RecordFailure(ctx, key, time.Now())
			}(key)
			go func(key string) {
				defer wg.Done()
				_, _ = store.CountSince(ctx, key, time.Now().Add(-time.Minute))
			}(key)
		}
	}
	wg.Wait()

	for _, key := range keys {
		count, err := store.CountSince(ctx, key, time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 25, count, "key %s", key)
	}
}
