package csrf

import "errors"

var (
	// ErrSecretTooShort is returned when the signing secret is shorter than 32 bytes.
	ErrSecretTooShort = errors.New("csrf secret must be at least 32 bytes")

	// ErrMalformedToken is returned when a token does not have the expected structure.
	ErrMalformedToken = errors.New("malformed csrf token")

	// ErrSessionMismatch is returned when a token was issued for a different session.
	ErrSessionMismatch = errors.New("csrf token session mismatch")

	// ErrTokenExpired is returned when a token is older than the maximum age.
	ErrTokenExpired = errors.New("csrf token expired")

	// ErrBadSignature is returned when the token signature does not verify.
	ErrBadSignature = errors.New("invalid csrf token signature")
)
