package session

import "errors"

var (
	// ErrExpired is returned when a session passed its absolute or inactivity timeout.
	ErrExpired = errors.New("session has expired")
	// ErrRevoked is returned when the token verifies but its session is no longer live.
	ErrRevoked = errors.New("session has been revoked")
	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")
	// ErrTokenGeneration is returned when token minting fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrStoreFailure is returned when the live-session store fails.
	ErrStoreFailure = errors.New("session store failure")
)
