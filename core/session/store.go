package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists the live-session table.
// Implementations must handle concurrent access safely. A session absent
// from the store is treated as revoked regardless of its token.
type Store interface {
	// Save inserts or updates a session.
	Save(ctx context.Context, sess *Session) error
	// GetByID returns the session or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	// Delete removes a session; deleting an absent session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByUsername returns all live sessions of a user, oldest first.
	ListByUsername(ctx context.Context, username string) ([]Session, error)
	// DeleteByUsername removes all of a user's sessions and reports how many.
	DeleteByUsername(ctx context.Context, username string) (int, error)
	// DeleteExpired removes sessions past their absolute expiry or idle since
	// before idleBefore, returning the count of deleted sessions.
	DeleteExpired(ctx context.Context, now, idleBefore time.Time) (int64, error)
}
