package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the live-session table in process memory.
// A single mutex guards the map; operations hold it only for the duration
// of the map access. State does not survive restarts and is not shared
// across instances; use RedisStore for that.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
}

// NewMemoryStore creates an empty in-memory live-session table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]Session),
	}
}

// Save inserts or updates a session.
func (ms *MemoryStore) Save(ctx context.Context, sess *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[sess.ID] = *sess
	return nil
}

// GetByID returns a copy of the session or ErrNotFound.
func (ms *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	sess, ok := ms.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Delete removes a session; absent sessions are ignored.
func (ms *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, id)
	return nil
}

// ListByUsername returns the user's sessions ordered oldest first.
func (ms *MemoryStore) ListByUsername(ctx context.Context, username string) ([]Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var sessions []Session
	for _, sess := range ms.sessions {
		if sess.Username == username {
			sessions = append(sessions, sess)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions, nil
}

// DeleteByUsername removes all of a user's sessions.
func (ms *MemoryStore) DeleteByUsername(ctx context.Context, username string) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	count := 0
	for id, sess := range ms.sessions {
		if sess.Username == username {
			delete(ms.sessions, id)
			count++
		}
	}

	return count, nil
}

// DeleteExpired removes sessions past absolute expiry or idle too long.
func (ms *MemoryStore) DeleteExpired(ctx context.Context, now, idleBefore time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var count int64
	for id, sess := range ms.sessions {
		if sess.ExpiresAt.Before(now) || sess.LastActivity.Before(idleBefore) {
			delete(ms.sessions, id)
			count++
		}
	}

	return count, nil
}
