package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/core/session"
)

func newSession(username string, createdAgo time.Duration) *session.Session {
	now := time.Now()
	return &session.Session{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Username:     username,
		Source:       "1.2.3.4",
		CreatedAt:    now.Add(-createdAgo),
		LastActivity: now,
		ExpiresAt:    now.Add(2 * time.Hour),
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := newSession("alice", 0)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Username, got.Username)

	// The store hands out copies; mutating the result must not leak back.
	got.Username = "mallory"
	again, err := store.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestMemoryStore_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	_, err := session.NewMemoryStore().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := newSession("alice", 0)
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err := store.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Absent deletes are not errors.
	assert.NoError(t, store.Delete(ctx, uuid.New()))
}

func TestMemoryStore_ListByUsername_OldestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	oldest := newSession("alice", 3*time.Hour)
	middle := newSession("alice", 2*time.Hour)
	newest := newSession("alice", time.Hour)
	other := newSession("bob", time.Hour)

	for _, sess := range []*session.Session{newest, oldest, other, middle} {
		require.NoError(t, store.Save(ctx, sess))
	}

	sessions, err := store.ListByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, oldest.ID, sessions[0].ID)
	assert.Equal(t, middle.ID, sessions[1].ID)
	assert.Equal(t, newest.ID, sessions[2].ID)
}

func TestMemoryStore_DeleteByUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	require.NoError(t, store.Save(ctx, newSession("alice", 0)))
	require.NoError(t, store.Save(ctx, newSession("alice", time.Hour)))
	bob := newSession("bob", 0)
	require.NoError(t, store.Save(ctx, bob))

	count, err := store.DeleteByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.GetByID(ctx, bob.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	now := time.Now()

	pastAbsolute := newSession("alice", 0)
	pastAbsolute.ExpiresAt = now.Add(-time.Minute)

	idle := newSession("alice", 0)
	idle.LastActivity = now.Add(-time.Hour)

	live := newSession("alice", 0)

	for _, sess := range []*session.Session{pastAbsolute, idle, live} {
		require.NoError(t, store.Save(ctx, sess))
	}

	count, err := store.DeleteExpired(ctx, now, now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = store.GetByID(ctx, live.ID)
	assert.NoError(t, err)
}
