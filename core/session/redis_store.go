package session

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the live-session table in Redis so revocation and the
// concurrent-session cap hold across multiple service instances.
//
// Layout: one JSON value per session under "<prefix>id:<uuid>" with a TTL at
// the session's absolute expiry, plus a per-user set "<prefix>user:<name>"
// of session IDs for the username-scoped operations. Set members whose
// session value already expired are pruned lazily on read.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithSessionKeyPrefix sets the key namespace. Default is "sessions:".
func WithSessionKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed live-session table.
func NewRedisStore(client redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client:    client,
		keyPrefix: "sessions:",
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

func (rs *RedisStore) sessionKey(id uuid.UUID) string {
	return rs.keyPrefix + "id:" + id.String()
}

func (rs *RedisStore) userKey(username string) string {
	return rs.keyPrefix + "user:" + username
}

// Save writes the session JSON with a TTL at its absolute expiry and links
// it into the user's session set.
func (rs *RedisStore) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return rs.Delete(ctx, sess.ID)
	}

	pipe := rs.client.TxPipeline()
	pipe.Set(ctx, rs.sessionKey(sess.ID), payload, ttl)
	pipe.SAdd(ctx, rs.userKey(sess.Username), sess.ID.String())
	pipe.ExpireAt(ctx, rs.userKey(sess.Username), sess.ExpiresAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	return nil
}

// GetByID returns the session or ErrNotFound.
func (rs *RedisStore) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	payload, err := rs.client.Get(ctx, rs.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	return &sess, nil
}

// Delete removes the session value. The user-set link is pruned lazily by
// ListByUsername since the username is unknown here without a read.
func (rs *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := rs.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := rs.client.TxPipeline()
	pipe.Del(ctx, rs.sessionKey(id))
	pipe.SRem(ctx, rs.userKey(sess.Username), id.String())

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	return nil
}

// ListByUsername returns the user's live sessions oldest first, pruning set
// members whose session value already expired.
func (rs *RedisStore) ListByUsername(ctx context.Context, username string) ([]Session, error) {
	ids, err := rs.client.SMembers(ctx, rs.userKey(username)).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var sessions []Session
	var stale []any
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			stale = append(stale, raw)
			continue
		}

		sess, err := rs.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			stale = append(stale, raw)
			continue
		}
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, *sess)
	}

	if len(stale) > 0 {
		if err := rs.client.SRem(ctx, rs.userKey(username), stale...).Err(); err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
	}

	sortByCreation(sessions)

	return sessions, nil
}

// DeleteByUsername removes all of a user's sessions.
func (rs *RedisStore) DeleteByUsername(ctx context.Context, username string) (int, error) {
	sessions, err := rs.ListByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	if len(sessions) == 0 {
		return 0, nil
	}

	pipe := rs.client.TxPipeline()
	for _, sess := range sessions {
		pipe.Del(ctx, rs.sessionKey(sess.ID))
	}
	pipe.Del(ctx, rs.userKey(username))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}

	return len(sessions), nil
}

// DeleteExpired is a no-op for absolute expiry, which Redis TTLs already
// handle; idle sessions are swept by scanning the user sets' members.
// Idle detection requires reading each session, so this is intended for a
// periodic background sweep, not the request path.
func (rs *RedisStore) DeleteExpired(ctx context.Context, now, idleBefore time.Time) (int64, error) {
	var deleted int64

	iter := rs.client.Scan(ctx, 0, rs.keyPrefix+"id:*", 256).Iterator()
	for iter.Next(ctx) {
		payload, err := rs.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return deleted, errors.Join(ErrStoreFailure, err)
		}

		var sess Session
		if err := json.Unmarshal(payload, &sess); err != nil {
			continue
		}

		if sess.ExpiresAt.Before(now) || sess.LastActivity.Before(idleBefore) {
			if err := rs.Delete(ctx, sess.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, errors.Join(ErrStoreFailure, err)
	}

	return deleted, nil
}

// Healthcheck verifies Redis connectivity.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func sortByCreation(sessions []Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}
