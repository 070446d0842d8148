package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfedosov/finguard/pkg/jwt"
)

// Session is one entry of the live-session table.
// LastActivity is updated on every successful validation; all other fields
// are fixed at creation.
type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Username     string
	Source       string
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}

// Claims is the verified payload of a session token.
type Claims struct {
	jwt.StandardClaims
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	Username  string `json:"username"`
	Source    string `json:"source,omitempty"`
}

// sessionID parses the embedded session ID.
func (c Claims) sessionID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.SessionID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
