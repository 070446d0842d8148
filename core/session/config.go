package session

import (
	"time"
)

// Config holds session manager timing and capacity parameters.
type Config struct {
	// AbsoluteTTL bounds a session's total lifetime from issuance.
	AbsoluteTTL time.Duration
	// InactivityTimeout ends a session with no successful validations for this long.
	InactivityTimeout time.Duration
	// MaxConcurrent caps live sessions per username; oldest is evicted first.
	MaxConcurrent int
	// RefreshWindow is how close to absolute expiry Refresh re-issues a token.
	RefreshWindow time.Duration
}

// defaultConfig returns the default policy: 2 hour absolute lifetime,
// 30 minute inactivity timeout, 3 concurrent sessions, refresh within the
// final 30 minutes.
func defaultConfig() Config {
	return Config{
		AbsoluteTTL:       2 * time.Hour,
		InactivityTimeout: 30 * time.Minute,
		MaxConcurrent:     3,
		RefreshWindow:     30 * time.Minute,
	}
}

// Option is a functional option for configuring the session manager.
type Option func(*Config)

// WithAbsoluteTTL sets the absolute session lifetime.
func WithAbsoluteTTL(ttl time.Duration) Option {
	return func(c *Config) {
		if ttl > 0 {
			c.AbsoluteTTL = ttl
		}
	}
}

// WithInactivityTimeout sets the idle timeout.
func WithInactivityTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.InactivityTimeout = timeout
		}
	}
}

// WithMaxConcurrent sets the per-user live session cap.
func WithMaxConcurrent(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxConcurrent = n
		}
	}
}

// WithRefreshWindow sets how close to expiry Refresh mints a replacement.
func WithRefreshWindow(window time.Duration) Option {
	return func(c *Config) {
		if window > 0 {
			c.RefreshWindow = window
		}
	}
}
