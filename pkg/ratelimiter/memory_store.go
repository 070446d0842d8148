package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// window holds the ascending failure timestamps for one key.
type window struct {
	failures   []time.Time
	lastAccess time.Time // Used by cleanup to identify idle windows
}

// MemoryStore implements Store using in-memory sliding windows.
// State is per process: it does not survive restarts and is not shared
// across instances. Use RedisStore for multi-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	// Configuration
	cleanupInterval time.Duration
	retention       time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	// State management
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	windowsCreated atomic.Int64
	windowsRemoved atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging.
type MemoryStoreStats struct {
	WindowsCreated int64 // Total number of windows created
	WindowsRemoved int64 // Total number of idle windows removed
	ActiveWindows  int   // Current number of active windows
	IsRunning      bool  // Whether the cleanup goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing idle windows.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithRetention sets how long an untouched window is kept before cleanup.
// Must be at least as long as the limiter's window or failures could be
// forgotten early.
func WithRetention(retention time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if retention > 0 {
			ms.retention = retention
		}
	}
}

// WithMemoryStoreShutdownTimeout sets the graceful shutdown timeout.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore creates a new in-memory store.
// Call Start() to begin background cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		retention:       time.Hour,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// RecordFailure appends a failure timestamp to the key's window.
func (ms *MemoryStore) RecordFailure(ctx context.Context, key string, at time.Time) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	w, exists := ms.windows[key]
	if !exists {
		w = &window{}
		ms.windows[key] = w
		ms.windowsCreated.Add(1)
	}

	// Appends arrive in wall-clock order, keeping the sequence ascending
	// without a sort.
	w.failures = append(w.failures, at)
	w.lastAccess = at

	return nil
}

// CountSince prunes entries older than since and returns the remaining count.
func (ms *MemoryStore) CountSince(ctx context.Context, key string, since time.Time) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	w, exists := ms.windows[key]
	if !exists {
		return 0, nil
	}

	w.failures = prune(w.failures, since)
	w.lastAccess = time.Now()

	return len(w.failures), nil
}

// Reset clears all failures for the key.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.windows, key)
	return nil
}

// prune drops timestamps before the cutoff. The sequence is ascending, so a
// single scan for the first retained index suffices.
func prune(failures []time.Time, cutoff time.Time) []time.Time {
	keep := 0
	for keep < len(failures) && failures[keep].Before(cutoff) {
		keep++
	}
	if keep == 0 {
		return failures
	}
	return append(failures[:0], failures[keep:]...)
}

// Start begins the background cleanup goroutine. This is a blocking operation
// that runs until the context is cancelled. Use Run() for errgroup pattern or
// call this in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store already started")
	}

	if ms.cleanupInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("cleanup interval must be > 0, got %v (use WithCleanupInterval to configure)", ms.cleanupInterval)
	}

	ms.ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.running.Store(true)
	defer ms.running.Store(false)

	ms.logger.InfoContext(ms.ctx, "rate limit store cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.ctx.Done():
			ms.logger.InfoContext(context.Background(), "rate limit store cleanup stopping")
			return ms.ctx.Err()
		case <-ticker.C:
			ms.cleanupWithWait()
		}
	}
}

// Stop gracefully shuts down the background cleanup with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store not started")
	}

	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout exceeded after %s", ms.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the cleanup, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop() // Ignore stop error in normal shutdown
			<-errCh       // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// cleanupWithWait wraps removeIdle so Stop can wait for an in-flight pass.
func (ms *MemoryStore) cleanupWithWait() {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.Unlock()

	defer ms.wg.Done()
	ms.removeIdle()
}

// removeIdle drops windows untouched for longer than the retention period so
// one-off sources do not accumulate forever.
func (ms *MemoryStore) removeIdle() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()

	removed := 0
	for key, w := range ms.windows {
		if now.Sub(w.lastAccess) > ms.retention {
			delete(ms.windows, key)
			removed++
		}
	}

	if removed > 0 {
		ms.windowsRemoved.Add(int64(removed))
	}
}

// Stats returns current memory store statistics for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	isRunning := ms.cancel != nil
	activeWindows := len(ms.windows)
	ms.mu.Unlock()

	return MemoryStoreStats{
		WindowsCreated: ms.windowsCreated.Load(),
		WindowsRemoved: ms.windowsRemoved.Load(),
		ActiveWindows:  activeWindows,
		IsRunning:      isRunning,
	}
}

// Healthcheck validates that the memory store is operational.
// Returns nil if healthy, or an error describing the health issue.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	stats := ms.Stats()

	if ms.cleanupInterval > 0 && !stats.IsRunning {
		return fmt.Errorf("cleanup is configured but not running")
	}

	return nil
}
