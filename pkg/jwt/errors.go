package jwt

import "errors"

var (
	// ErrInvalidToken is returned for malformed tokens or failed nbf validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token is past its expiration time.
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidSignature is returned when signature verification fails.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrUnexpectedSigningMethod is returned when the token header declares an algorithm other than HS256.
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
	// ErrMissingSigningKey is returned when a service is created without a signing key.
	ErrMissingSigningKey = errors.New("missing signing key")
	// ErrInvalidSigningKey is returned when the signing key is too weak.
	ErrInvalidSigningKey = errors.New("invalid signing key")
	// ErrInvalidClaims is returned when claims cannot be serialized.
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrMissingClaims is returned when Generate is called with nil claims.
	ErrMissingClaims = errors.New("missing claims")
)
