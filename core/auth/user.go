package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a stored account. PasswordHash is a bcrypt hash and must never
// be logged or serialized to clients.
type User struct {
	ID           uuid.UUID
	Name         string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists user accounts. Lookups return ErrUserNotFound when
// no user matches; that is a normal negative result, not a failure.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error
}
