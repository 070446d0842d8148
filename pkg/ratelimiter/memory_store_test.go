package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/pkg/ratelimiter"
)

func TestMemoryStore_RecordAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	now := time.Now()
	for i := range 5 {
		require.NoError(t, store.RecordFailure(ctx, "key", now.Add(time.Duration(i)*time.Second)))
	}

	count, err := store.CountSince(ctx, "key", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestMemoryStore_CountSince_PrunesOldEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	now := time.Now()
	// Three failures outside the window, two inside.
	for _, offset := range []time.Duration{-20 * time.Minute, -18 * time.Minute, -16 * time.Minute, -5 * time.Minute, -time.Minute} {
		require.NoError(t, store.RecordFailure(ctx, "key", now.Add(offset)))
	}

	count, err := store.CountSince(ctx, "key", now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStore_CountSince_UnknownKey(t *testing.T) {
	t.Parallel()

	count, err := ratelimiter.NewMemoryStore().CountSince(context.Background(), "missing", time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStore_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	now := time.Now()
	require.NoError(t, store.RecordFailure(ctx, "key", now))
	require.NoError(t, store.Reset(ctx, "key"))

	count, err := store.CountSince(ctx, "key", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStore_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()

	require.NoError(t, store.RecordFailure(ctx, "a", time.Now()))
	require.NoError(t, store.RecordFailure(ctx, "b", time.Now()))

	stats := store.Stats()
	assert.Equal(t, int64(2), stats.WindowsCreated)
	assert.Equal(t, 2, stats.ActiveWindows)
	assert.False(t, stats.IsRunning)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(10 * time.Millisecond),
		ratelimiter.WithRetention(20 * time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- store.Start(ctx)
	}()

	// Give the cleanup goroutine time to start, then verify idle windows
	// get removed.
	require.NoError(t, store.RecordFailure(ctx, "stale", time.Now().Add(-time.Minute)))
	require.Eventually(t, func() bool {
		return store.Stats().ActiveWindows == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, store.Stop())

	err := <-errCh
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_StopWithoutStart(t *testing.T) {
	t.Parallel()

	assert.Error(t, ratelimiter.NewMemoryStore().Stop())
}
