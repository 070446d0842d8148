package ratelimiter

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis sorted set per key, scored by the
// failure timestamp. State is shared across processes and survives restarts,
// which makes it the backend of choice when the service runs as multiple
// instances behind a load balancer.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
	retention time.Duration

	// seq disambiguates members recorded within the same nanosecond.
	seq atomic.Uint64
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix sets the key namespace. Default is "ratelimit:".
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// WithRedisRetention sets the TTL applied to failure sets so abandoned keys
// expire on their own. Must cover the limiter's window.
func WithRedisRetention(retention time.Duration) RedisStoreOption {
	return func(rs *RedisStore) {
		if retention > 0 {
			rs.retention = retention
		}
	}
}

// NewRedisStore creates a Redis-backed sliding-window store.
func NewRedisStore(client redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client:    client,
		keyPrefix: "ratelimit:",
		retention: time.Hour,
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

// RecordFailure adds a failure timestamp to the key's sorted set and refreshes
// its TTL in a single pipeline round trip.
func (rs *RedisStore) RecordFailure(ctx context.Context, key string, at time.Time) error {
	member := strconv.FormatInt(at.UnixNano(), 10) + "-" + strconv.FormatUint(rs.seq.Add(1), 10)

	pipe := rs.client.TxPipeline()
	pipe.ZAdd(ctx, rs.keyPrefix+key, redis.Z{
		Score:  float64(at.UnixNano()),
		Member: member,
	})
	pipe.Expire(ctx, rs.keyPrefix+key, rs.retention)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	return nil
}

// CountSince removes entries older than since and returns the remaining count.
// Prune and count run in one transaction so concurrent callers observe a
// consistent window.
func (rs *RedisStore) CountSince(ctx context.Context, key string, since time.Time) (int, error) {
	cutoff := strconv.FormatInt(since.UnixNano(), 10)

	pipe := rs.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rs.keyPrefix+key, "-inf", "("+cutoff)
	card := pipe.ZCard(ctx, rs.keyPrefix+key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}

	return int(card.Val()), nil
}

// Reset clears all failures for the key.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.keyPrefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Healthcheck verifies Redis connectivity.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
