package csrf

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mfedosov/finguard/core/audit"
)

const minSecretLength = 32

// Guard issues and validates HMAC-signed anti-forgery tokens.
type Guard struct {
	mu     sync.RWMutex
	secret []byte
	sink   audit.Sink
	maxAge time.Duration
}

// Option configures a Guard.
type Option func(*Guard)

// WithMaxTokenAge sets how long an issued token stays valid.
// The default is one hour.
func WithMaxTokenAge(age time.Duration) Option {
	return func(g *Guard) {
		if age > 0 {
			g.maxAge = age
		}
	}
}

// New creates a guard with the given signing secret. The sink may be nil
// to disable audit events.
func New(secret []byte, sink audit.Sink, opts ...Option) (*Guard, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	if sink == nil {
		sink = audit.NopSink{}
	}

	g := &Guard{
		secret: append([]byte(nil), secret...),
		sink:   sink,
		maxAge: time.Hour,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Issue creates a token bound to the given session identifier.
func (g *Guard) Issue(sessionID string) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	payload := sessionID + ":" + ts

	g.mu.RLock()
	sig := sign(g.secret, payload)
	g.mu.RUnlock()

	return payload + ":" + sig
}

// Validate checks a token presented by the given session. Checks run in
// order: structure, session binding, age, signature. Every rejection is
// audited; callers should answer the client with a single generic error
// regardless of which check failed.
func (g *Guard) Validate(ctx context.Context, token, sessionID string) error {
	if err := g.validate(token, sessionID); err != nil {
		g.sink.Event(ctx, audit.Event{
			Type:     audit.EventCSRFRejected,
			Severity: audit.SeverityWarning,
			Reason:   err.Error(),
		})
		return err
	}
	return nil
}

func (g *Guard) validate(token, sessionID string) error {
	// Split from the right so colons inside the session identifier
	// survive; the timestamp and signature never contain one.
	rest, sig, ok := cutLast(token)
	if !ok {
		return ErrMalformedToken
	}
	tokenSession, ts, ok := cutLast(rest)
	if !ok || tokenSession == "" {
		return ErrMalformedToken
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformedToken
	}

	if tokenSession != sessionID {
		return ErrSessionMismatch
	}

	if time.Since(time.Unix(issued, 0)) > g.maxAge {
		return ErrTokenExpired
	}

	g.mu.RLock()
	expected := sign(g.secret, tokenSession+":"+ts)
	g.mu.RUnlock()

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

// RotateSecret replaces the signing secret. Tokens issued under the old
// secret stop validating immediately.
func (g *Guard) RotateSecret(ctx context.Context, secret []byte) error {
	if len(secret) < minSecretLength {
		return ErrSecretTooShort
	}

	g.mu.Lock()
	g.secret = append([]byte(nil), secret...)
	g.mu.Unlock()

	g.sink.Event(ctx, audit.Event{
		Type:     audit.EventKeyRotated,
		Severity: audit.SeverityInfo,
		Success:  true,
		Reason:   "csrf signing secret rotated",
	})
	return nil
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// cutLast splits s on its final colon.
func cutLast(s string) (before, after string, found bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
