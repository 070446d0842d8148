package ratelimiter

import (
	"context"
	"time"
)

// Config holds sliding-window parameters.
type Config struct {
	// MaxAttempts is the number of failures within Window that triggers a denial.
	MaxAttempts int
	// Window is the rolling interval during which failures are counted.
	Window time.Duration
}

// DefaultConfig matches common login-throttling policy:
// 5 failures within 15 minutes.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	if c.MaxAttempts <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Store defines the persistence contract for failure windows.
// Implementations must be safe for concurrent use and must prune or ignore
// entries older than the requested window on every read.
type Store interface {
	// RecordFailure appends a failure timestamp to the key's window.
	RecordFailure(ctx context.Context, key string, at time.Time) error
	// CountSince returns the number of failures recorded at or after since.
	CountSince(ctx context.Context, key string, since time.Time) (int, error)
	// Reset clears all failures for the key.
	Reset(ctx context.Context, key string) error
}

// Key prefixes namespace the two independent windows within one store.
const (
	sourceKeyPrefix = "src:"
	userKeyPrefix   = "user:"
)

// Limiter throttles authentication attempts keyed by source address and,
// independently, by username. Both windows must be below the limit for an
// attempt to pass.
type Limiter struct {
	store Store
	cfg   Config
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store Store, cfg Config) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreUnavailable
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Limiter{store: store, cfg: cfg}, nil
}

// Allow reports whether an attempt from the given source for the given user
// is permitted. An empty userKey checks the source window only.
func (l *Limiter) Allow(ctx context.Context, sourceKey, userKey string) (bool, error) {
	if sourceKey == "" {
		return false, ErrMissingKey
	}

	since := time.Now().Add(-l.cfg.Window)

	count, err := l.store.CountSince(ctx, sourceKeyPrefix+sourceKey, since)
	if err != nil {
		return false, err
	}
	if count >= l.cfg.MaxAttempts {
		return false, nil
	}

	if userKey != "" {
		count, err = l.store.CountSince(ctx, userKeyPrefix+userKey, since)
		if err != nil {
			return false, err
		}
		if count >= l.cfg.MaxAttempts {
			return false, nil
		}
	}

	return true, nil
}

// RecordFailure registers a failed attempt against both windows.
func (l *Limiter) RecordFailure(ctx context.Context, sourceKey, userKey string) error {
	if sourceKey == "" {
		return ErrMissingKey
	}

	now := time.Now()
	if err := l.store.RecordFailure(ctx, sourceKeyPrefix+sourceKey, now); err != nil {
		return err
	}
	if userKey != "" {
		return l.store.RecordFailure(ctx, userKeyPrefix+userKey, now)
	}

	return nil
}

// RecordSuccess clears both windows. A successful login resets the counters
// immediately so stale failures cannot accumulate into a permanent lockout.
func (l *Limiter) RecordSuccess(ctx context.Context, sourceKey, userKey string) error {
	if sourceKey == "" {
		return ErrMissingKey
	}

	if err := l.store.Reset(ctx, sourceKeyPrefix+sourceKey); err != nil {
		return err
	}
	if userKey != "" {
		return l.store.Reset(ctx, userKeyPrefix+userKey)
	}

	return nil
}

// Remaining returns how many further failures either window tolerates before
// attempts are denied; the tighter of the two windows wins.
func (l *Limiter) Remaining(ctx context.Context, sourceKey, userKey string) (int, error) {
	if sourceKey == "" {
		return 0, ErrMissingKey
	}

	since := time.Now().Add(-l.cfg.Window)

	count, err := l.store.CountSince(ctx, sourceKeyPrefix+sourceKey, since)
	if err != nil {
		return 0, err
	}
	remaining := max(l.cfg.MaxAttempts-count, 0)

	if userKey != "" {
		count, err = l.store.CountSince(ctx, userKeyPrefix+userKey, since)
		if err != nil {
			return 0, err
		}
		remaining = min(remaining, max(l.cfg.MaxAttempts-count, 0))
	}

	return remaining, nil
}

// MaxAttempts exposes the configured limit for audit messages and headers.
func (l *Limiter) MaxAttempts() int {
	return l.cfg.MaxAttempts
}

// Window exposes the configured rolling window.
func (l *Limiter) Window() time.Duration {
	return l.cfg.Window
}
