package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrMissingKey       = errors.New("missing rate limit key")
	ErrStoreUnavailable = errors.New("store unavailable")
)
