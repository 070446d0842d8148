package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfedosov/finguard/core/audit"
	"github.com/mfedosov/finguard/pkg/jwt"
)

// Manager issues, validates, refreshes, and revokes signed session tokens.
// It is safe for concurrent use.
type Manager struct {
	store  Store
	signer *jwt.Service
	sink   audit.Sink
	cfg    Config

	// userLocks serializes cap enforcement per username; see Create.
	userLocks sync.Map
}

// NewManager creates a session manager. The sink may be nil to disable
// audit events.
func NewManager(store Store, signer *jwt.Service, sink audit.Sink, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreFailure
	}
	if signer == nil {
		return nil, jwt.ErrMissingSigningKey
	}
	if sink == nil {
		sink = audit.NopSink{}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Manager{
		store:  store,
		signer: signer,
		sink:   sink,
		cfg:    cfg,
	}, nil
}

// Create mints a signed token and registers the live session.
// When the user already holds MaxConcurrent live sessions, the oldest is
// revoked before the new one is issued.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, username, source string) (string, error) {
	// The list-evict-save sequence must not interleave for one username:
	// two concurrent creates would both observe the same table, both evict
	// the same oldest entry, and leave the user over the cap.
	unlock := m.lockUser(username)
	defer unlock()

	if err := m.evictOldest(ctx, username); err != nil {
		return "", err
	}

	now := time.Now()
	sess := &Session{
		ID:           uuid.New(),
		UserID:       userID,
		Username:     username,
		Source:       source,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.cfg.AbsoluteTTL),
	}

	token, err := m.signer.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			ID:        sess.ID.String(),
			Subject:   userID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: sess.ExpiresAt.Unix(),
		},
		SessionID: sess.ID.String(),
		UserID:    userID.String(),
		Username:  username,
		Source:    source,
	})
	if err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return "", errors.Join(ErrStoreFailure, err)
	}

	m.sink.Event(ctx, audit.Event{
		Type:     audit.EventSessionCreated,
		Severity: audit.SeverityInfo,
		Username: username,
		Source:   source,
		Success:  true,
	})

	return token, nil
}

// Validate verifies the token and the live session behind it, updating the
// session's last-activity time on success.
//
// Checks run in order: signature, absolute expiry, live-table presence,
// inactivity timeout. A source address differing from the token's is
// reported as suspicious but does not invalidate the session.
func (m *Manager) Validate(ctx context.Context, token, source string) (Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		if errors.Is(err, ErrExpired) {
			// Drop the live-table entry as the inactivity branch does,
			// so a dead session stops counting against the user's cap.
			if id, idErr := claims.sessionID(); idErr == nil {
				if delErr := m.store.Delete(ctx, id); delErr != nil {
					return Claims{}, errors.Join(ErrStoreFailure, delErr)
				}
			}
			m.sink.Event(ctx, audit.Event{
				Type:     audit.EventSessionExpired,
				Severity: audit.SeverityInfo,
				Username: claims.Username,
				Source:   source,
				Reason:   "absolute timeout",
			})
		}
		return Claims{}, err
	}

	id, err := claims.sessionID()
	if err != nil {
		return Claims{}, err
	}

	sess, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Claims{}, ErrRevoked
		}
		return Claims{}, errors.Join(ErrStoreFailure, err)
	}

	now := time.Now()
	if now.Sub(sess.LastActivity) > m.cfg.InactivityTimeout {
		if err := m.store.Delete(ctx, id); err != nil {
			return Claims{}, errors.Join(ErrStoreFailure, err)
		}
		m.sink.Event(ctx, audit.Event{
			Type:     audit.EventSessionExpired,
			Severity: audit.SeverityInfo,
			Username: sess.Username,
			Source:   source,
			Reason:   "inactivity timeout",
		})
		return Claims{}, ErrExpired
	}

	if source != "" && sess.Source != "" && source != sess.Source {
		// Soft signal only: client networks legitimately change.
		m.sink.Event(ctx, audit.Event{
			Type:     audit.EventSuspiciousActivity,
			Severity: audit.SeverityWarning,
			Username: sess.Username,
			Source:   source,
			Reason:   "session source address mismatch",
			Meta:     map[string]string{"session_source": sess.Source},
		})
	}

	sess.LastActivity = now
	if err := m.store.Save(ctx, sess); err != nil {
		return Claims{}, errors.Join(ErrStoreFailure, err)
	}

	return claims, nil
}

// Refresh re-issues the session when it is within the refresh window of its
// absolute expiry, atomically revoking the old session. Outside the window
// the same token is returned unchanged.
func (m *Manager) Refresh(ctx context.Context, token, source string) (string, error) {
	claims, err := m.Validate(ctx, token, source)
	if err != nil {
		return "", err
	}

	expiresAt := time.Unix(claims.ExpiresAt, 0)
	if time.Until(expiresAt) >= m.cfg.RefreshWindow {
		return token, nil
	}

	id, err := claims.sessionID()
	if err != nil {
		return "", err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return "", errors.Join(ErrStoreFailure, err)
	}

	newToken, err := m.Create(ctx, userID, claims.Username, claims.Source)
	if err != nil {
		return "", err
	}

	m.sink.Event(ctx, audit.Event{
		Type:     audit.EventSessionRefreshed,
		Severity: audit.SeverityInfo,
		Username: claims.Username,
		Source:   source,
		Success:  true,
	})

	return newToken, nil
}

// Revoke removes the token's live session immediately.
// Expired tokens are accepted here so logout works to the very end of a
// session's life; tampered tokens are not.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil && !errors.Is(err, ErrExpired) {
		return err
	}

	id, err := claims.sessionID()
	if err != nil {
		return err
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	m.sink.Event(ctx, audit.Event{
		Type:     audit.EventSessionRevoked,
		Severity: audit.SeverityInfo,
		Username: claims.Username,
		Success:  true,
	})

	return nil
}

// RevokeAll removes every live session of the given user.
func (m *Manager) RevokeAll(ctx context.Context, username string) error {
	count, err := m.store.DeleteByUsername(ctx, username)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	m.sink.Event(ctx, audit.Event{
		Type:     audit.EventSessionRevoked,
		Severity: audit.SeverityInfo,
		Username: username,
		Success:  true,
		Reason:   "all sessions revoked",
		Meta:     map[string]string{"count": strconv.Itoa(count)},
	})

	return nil
}

// Info returns the live-session record behind a valid token without
// updating its activity time.
func (m *Manager) Info(ctx context.Context, token string) (Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Session{}, err
	}

	id, err := claims.sessionID()
	if err != nil {
		return Session{}, err
	}

	sess, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrRevoked
		}
		return Session{}, errors.Join(ErrStoreFailure, err)
	}

	return *sess, nil
}

// CleanupExpired sweeps sessions past either timeout from the store.
// Intended to run periodically.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	now := time.Now()
	return m.store.DeleteExpired(ctx, now, now.Add(-m.cfg.InactivityTimeout))
}

// parse verifies the token signature and maps token-level errors to
// session errors. Claims are populated even when the token is expired so
// callers can still identify the session.
func (m *Manager) parse(token string) (Claims, error) {
	var claims Claims
	if err := m.signer.Parse(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return claims, ErrExpired
		}
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// lockUser blocks until the caller holds the username's creation lock and
// returns the release function.
func (m *Manager) lockUser(username string) func() {
	v, _ := m.userLocks.LoadOrStore(username, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// evictOldest enforces the concurrent-session cap for a username.
// Callers must hold the username's creation lock.
func (m *Manager) evictOldest(ctx context.Context, username string) error {
	sessions, err := m.store.ListByUsername(ctx, username)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	if len(sessions) < m.cfg.MaxConcurrent {
		return nil
	}

	// ListByUsername returns oldest first; remove enough to leave room
	// for the new session.
	excess := len(sessions) - m.cfg.MaxConcurrent + 1
	for _, sess := range sessions[:excess] {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
		m.sink.Event(ctx, audit.Event{
			Type:     audit.EventSessionRevoked,
			Severity: audit.SeverityInfo,
			Username: username,
			Reason:   "concurrent session cap",
		})
	}

	return nil
}
