// Package ratelimiter provides sliding-window login-attempt throttling with
// pluggable storage backends.
//
// The limiter tracks authentication failures within a rolling time window,
// keyed independently by source address and by username. When either window
// holds the configured maximum number of failures, further attempts are
// denied until old failures age out of the window or a successful attempt
// clears the counters.
//
// # Sliding-Window Algorithm
//
// Every operation works against a per-key ordered sequence of failure
// timestamps:
//  1. Entries older than now-window are pruned on every access.
//  2. A failed attempt appends the current time to both the source-keyed and
//     username-keyed sequences.
//  3. An attempt is allowed only while both sequences hold fewer than the
//     configured maximum.
//  4. A successful attempt clears both sequences, so stale failures can never
//     lock an account permanently.
//
// Unlike fixed buckets, the rolling window has no boundary burst: five
// failures always block for the full window measured from the oldest
// remaining failure.
//
// # Core Types
//
// Store defines the persistence contract (RecordFailure, CountSince, Reset)
// and is deliberately storage-agnostic: MemoryStore serves single-process
// deployments, RedisStore shares state across instances behind a load
// balancer and survives restarts.
//
// Limiter composes a Store with a Config and exposes the throttling API:
// Allow, RecordFailure, RecordSuccess, Remaining.
//
// # Usage
//
//	store := ratelimiter.NewMemoryStore()
//
//	limiter, err := ratelimiter.NewLimiter(store, ratelimiter.Config{
//		MaxAttempts: 5,
//		Window:      15 * time.Minute,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := limiter.Allow(ctx, clientIP, username)
//	if err != nil {
//		log.Printf("rate limiter error: %v", err)
//		return
//	}
//	if !ok {
//		// reject the attempt before touching credentials
//		return
//	}
//
//	// ... verify credentials ...
//	if authenticated {
//		_ = limiter.RecordSuccess(ctx, clientIP, username)
//	} else {
//		_ = limiter.RecordFailure(ctx, clientIP, username)
//	}
//
// # Storage Backends
//
// Memory store (single instance):
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Start(ctx) // background pruning of idle keys
//
// Redis store (distributed):
//
//	store := ratelimiter.NewRedisStore(redisClient)
//
// # Error Handling
//
//   - ErrInvalidConfig: non-positive MaxAttempts or Window
//   - ErrMissingKey: Allow/RecordFailure called without a source key
//
// Storage backend errors are propagated as-is for handling by the application.
package ratelimiter
