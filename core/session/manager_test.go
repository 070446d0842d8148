package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/core/audit"
	"github.com/mfedosov/finguard/core/session"
	"github.com/mfedosov/finguard/pkg/jwt"
)

const signingKey = "test-signing-secret-32-bytes-min!"

// recordingSink captures audit events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (rs *recordingSink) Event(ctx context.Context, e audit.Event) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.events = append(rs.events, e)
}

func (rs *recordingSink) byType(t audit.EventType) []audit.Event {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var matched []audit.Event
	for _, e := range rs.events {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}

func newTestManager(t *testing.T, opts ...session.Option) (*session.Manager, *session.MemoryStore, *recordingSink) {
	t.Helper()

	signer, err := jwt.NewFromString(signingKey)
	require.NoError(t, err)

	store := session.NewMemoryStore()
	sink := &recordingSink{}

	manager, err := session.NewManager(store, signer, sink, opts...)
	require.NoError(t, err)

	return manager, store, sink
}

func TestManager_CreateAndValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _, sink := newTestManager(t)
	userID := uuid.New()

	token, err := manager.Create(ctx, userID, "alice", "1.2.3.4")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(ctx, token, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "1.2.3.4", claims.Source)

	assert.Len(t, sink.byType(audit.EventSessionCreated), 1)
}

func TestManager_Validate_InvalidToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _, _ := newTestManager(t)

	_, err := manager.Validate(ctx, "garbage", "1.2.3.4")
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	// A token signed with a different secret must be rejected.
	otherSigner, err := jwt.NewFromString("other-signing-secret-32-bytes-ok!")
	require.NoError(t, err)
	forged, err := otherSigner.Generate(session.Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		SessionID:      uuid.NewString(),
		UserID:         uuid.NewString(),
		Username:       "mallory",
	})
	require.NoError(t, err)

	_, err = manager.Validate(ctx, forged, "1.2.3.4")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestManager_Validate_AbsoluteTimeout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, store, sink := newTestManager(t)

	// Token whose absolute expiry already passed; the signature is genuine.
	sessionID := uuid.New()
	userID := uuid.New()
	signer, err := jwt.NewFromString(signingKey)
	require.NoError(t, err)
	expired, err := signer.Generate(session.Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			IssuedAt:  time.Now().Add(-121 * time.Minute).Unix(),
		},
		SessionID: sessionID.String(),
		UserID:    userID.String(),
		Username:  "alice",
	})
	require.NoError(t, err)

	// A live-table entry for the dead token; it must not outlive validation.
	require.NoError(t, store.Save(ctx, &session.Session{
		ID:           sessionID,
		UserID:       userID,
		Username:     "alice",
		Source:       "1.2.3.4",
		CreatedAt:    time.Now().Add(-121 * time.Minute),
		LastActivity: time.Now().Add(-time.Minute),
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	_, err = manager.Validate(ctx, expired, "1.2.3.4")
	assert.ErrorIs(t, err, session.ErrExpired)
	assert.NotEmpty(t, sink.byType(audit.EventSessionExpired))

	// The entry is gone and no longer counts against the user's cap.
	_, err = store.GetByID(ctx, sessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Validate_InactivityTimeout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, store, sink := newTestManager(t, session.WithInactivityTimeout(30*time.Minute))

	token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
	require.NoError(t, err)

	// Backdate the session's activity past the inactivity cutoff.
	info, err := manager.Info(ctx, token)
	require.NoError(t, err)
	info.LastActivity = time.Now().Add(-31 * time.Minute)
	require.NoError(t, store.Save(ctx, &info))

	_, err = manager.Validate(ctx, token, "1.2.3.4")
	assert.ErrorIs(t, err, session.ErrExpired)

	// The idle session is also removed from the live table.
	_, err = manager.Info(ctx, token)
	assert.ErrorIs(t, err, session.ErrRevoked)

	events := sink.byType(audit.EventSessionExpired)
	require.NotEmpty(t, events)
	assert.Equal(t, "inactivity timeout", events[0].Reason)
}

func TestManager_Validate_UpdatesActivity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, store, _ := newTestManager(t)

	token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
	require.NoError(t, err)

	info, err := manager.Info(ctx, token)
	require.NoError(t, err)
	earlier := time.Now().Add(-10 * time.Minute)
	info.LastActivity = earlier
	require.NoError(t, store.Save(ctx, &info))

	_, err = manager.Validate(ctx, token, "1.2.3.4")
	require.NoError(t, err)

	refreshed, err := manager.Info(ctx, token)
	require.NoError(t, err)
	assert.True(t, refreshed.LastActivity.After(earlier))
}

func TestManager_Validate_SourceMismatchIsSoftSignal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _, sink := newTestManager(t)

	token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
	require.NoError(t, err)

	// Different source address: session stays valid, suspicious activity logged.
	_, err = manager.Validate(ctx, token, "5.6.7.8")
	require.NoError(t, err)

	events := sink.byType(audit.EventSuspiciousActivity)
	require.Len(t, events, 1)
	assert.Equal(t, "5.6.7.8", events[0].Source)
	assert.Equal(t, "1.2.3.4", events[0].Meta["session_source"])
}

func TestManager_ConcurrentSessionCap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _, sink := newTestManager(t, session.WithMaxConcurrent(3))
	userID := uuid.New()

	tokens := make([]string, 0, 4)
	for range 4 {
		// Spread creation times so eviction order is deterministic.
		time.Sleep(5 * time.Millisecond)
		token, err := manager.Create(ctx, userID, "alice", "1.2.3.4")
		require.NoError(t, err)
		tokens = append(tokens, token)
	}

	// The oldest session was evicted; the newer three remain valid.
	_, err := manager.Validate(ctx, tokens[0], "1.2.3.4")
	assert.ErrorIs(t, err, session.ErrRevoked)

	for _, token := range tokens[1:] {
		_, err := manager.Validate(ctx, token, "1.2.3.4")
		assert.NoError(t, err)
	}

	events := sink.byType(audit.EventSessionRevoked)
	require.Len(t, events, 1)
	assert.Equal(t, "concurrent session cap", events[0].Reason)
}

func TestManager_Refresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("inside refresh window re-issues", func(t *testing.T) {
		t.Parallel()

		// A 10 minute lifetime is already within the 30 minute window.
		manager, _, sink := newTestManager(t,
			session.WithAbsoluteTTL(10*time.Minute),
			session.WithRefreshWindow(30*time.Minute),
		)

		token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
		require.NoError(t, err)

		newToken, err := manager.Refresh(ctx, token, "1.2.3.4")
		require.NoError(t, err)
		assert.NotEqual(t, token, newToken)

		// Old token is revoked, new token validates.
		_, err = manager.Validate(ctx, token, "1.2.3.4")
		assert.ErrorIs(t, err, session.ErrRevoked)
		_, err = manager.Validate(ctx, newToken, "1.2.3.4")
		assert.NoError(t, err)

		assert.Len(t, sink.byType(audit.EventSessionRefreshed), 1)
	})

	t.Run("outside refresh window returns same token", func(t *testing.T) {
		t.Parallel()

		manager, _, _ := newTestManager(t,
			session.WithAbsoluteTTL(2*time.Hour),
			session.WithRefreshWindow(30*time.Minute),
		)

		token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
		require.NoError(t, err)

		sameToken, err := manager.Refresh(ctx, token, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, token, sameToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()

		manager, _, _ := newTestManager(t)

		_, err := manager.Refresh(ctx, "garbage", "1.2.3.4")
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})
}

func TestManager_Revoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _, _ := newTestManager(t)

	token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
	require.NoError(t, err)

	require.NoError(t, manager.Revoke(ctx, token))

	_, err = manager.Validate(ctx, token, "1.2.3.4")
	assert.ErrorIs(t, err, session.ErrRevoked)

	// Revoking again is harmless.
	assert.NoError(t, manager.Revoke(ctx, token))

	// Tampered tokens are rejected.
	assert.ErrorIs(t, manager.Revoke(ctx, "garbage"), session.ErrInvalidToken)
}

func TestManager_RevokeAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _, _ := newTestManager(t)
	userID := uuid.New()

	var tokens []string
	for range 3 {
		token, err := manager.Create(ctx, userID, "alice", "1.2.3.4")
		require.NoError(t, err)
		tokens = append(tokens, token)
	}

	// Another user's session survives.
	bobToken, err := manager.Create(ctx, uuid.New(), "bob", "5.6.7.8")
	require.NoError(t, err)

	require.NoError(t, manager.RevokeAll(ctx, "alice"))

	for _, token := range tokens {
		_, err := manager.Validate(ctx, token, "1.2.3.4")
		assert.ErrorIs(t, err, session.ErrRevoked)
	}

	_, err = manager.Validate(ctx, bobToken, "5.6.7.8")
	assert.NoError(t, err)
}

func TestManager_CleanupExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, store, _ := newTestManager(t)

	token, err := manager.Create(ctx, uuid.New(), "alice", "1.2.3.4")
	require.NoError(t, err)

	info, err := manager.Info(ctx, token)
	require.NoError(t, err)
	info.LastActivity = time.Now().Add(-time.Hour)
	require.NoError(t, store.Save(ctx, &info))

	// A fresh session for another user must survive the sweep.
	fresh, err := manager.Create(ctx, uuid.New(), "bob", "5.6.7.8")
	require.NoError(t, err)

	count, err := manager.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = manager.Validate(ctx, fresh, "5.6.7.8")
	assert.NoError(t, err)
}
