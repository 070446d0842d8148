package auth

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mfedosov/finguard/core/audit"
	"github.com/mfedosov/finguard/pkg/passwordpolicy"
	"github.com/mfedosov/finguard/pkg/ratelimiter"
)

const (
	defaultBcryptCost       = 12
	defaultUnknownUserDelay = 500 * time.Millisecond
)

var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// SessionRevoker invalidates every live session of a username. It is
// called after a password change so stolen sessions do not outlive the
// credential they were minted under.
type SessionRevoker func(ctx context.Context, username string) error

// Service authenticates and registers users. All dependencies are
// injected; the service holds no global state and is safe for concurrent
// use.
type Service struct {
	store   UserStore
	policy  *passwordpolicy.Policy
	limiter *ratelimiter.Limiter
	sink    audit.Sink

	bcryptCost       int
	unknownUserDelay time.Duration
	revokeSessions   SessionRevoker
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the bcrypt work factor. The default cost of 12
// targets tens of milliseconds per hash on current hardware.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithUnknownUserDelay sets the fixed delay applied when authentication
// names a nonexistent user, masking the bcrypt time a real lookup costs.
func WithUnknownUserDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.unknownUserDelay = d
		}
	}
}

// WithSessionRevoker installs a hook that revokes a user's sessions after
// a password change.
func WithSessionRevoker(r SessionRevoker) Option {
	return func(s *Service) {
		s.revokeSessions = r
	}
}

// NewService creates an authentication service. The sink may be nil to
// disable audit events.
func NewService(store UserStore, policy *passwordpolicy.Policy, limiter *ratelimiter.Limiter, sink audit.Sink, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreFailure
	}
	if policy == nil {
		return nil, passwordpolicy.ErrEmptyPassword
	}
	if limiter == nil {
		return nil, ratelimiter.ErrStoreUnavailable
	}
	if sink == nil {
		sink = audit.NopSink{}
	}

	s := &Service{
		store:            store,
		policy:           policy,
		limiter:          limiter,
		sink:             sink,
		bcryptCost:       defaultBcryptCost,
		unknownUserDelay: defaultUnknownUserDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// HashPassword validates the password against the policy and returns its
// bcrypt hash. Policy rejection fails before any hashing happens.
func (s *Service) HashPassword(password string) (string, error) {
	if err := s.policy.Validate(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", errors.Join(ErrHashingFailure, err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func (s *Service) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate verifies credentials for a login attempt from the given
// source address. The rate limiter is consulted before any credential
// work, unknown usernames incur a fixed delay, and both unknown-user and
// wrong-password outcomes collapse into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password, source string) (*User, error) {
	allowed, err := s.limiter.Allow(ctx, source, username)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.sink.Event(ctx, audit.Event{
			Type:     audit.EventRateLimitExceeded,
			Severity: audit.SeverityWarning,
			Username: username,
			Source:   source,
			Reason:   "attempt limit reached",
			Meta:     map[string]string{"max_attempts": strconv.Itoa(s.limiter.MaxAttempts())},
		})
		return nil, ErrRateLimited
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			sleep(ctx, s.unknownUserDelay)
			return nil, s.recordFailure(ctx, username, source, "unknown username")
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, s.recordFailure(ctx, username, source, "wrong password")
	}

	if err := s.limiter.RecordSuccess(ctx, source, username); err != nil {
		return nil, err
	}
	s.sink.Event(ctx, audit.Event{
		Type:     audit.EventAuthenticationAttempt,
		Severity: audit.SeverityInfo,
		Username: username,
		Source:   source,
		Success:  true,
	})

	return user, nil
}

// Register validates inputs, enforces the password policy, and persists a
// new account.
func (s *Service) Register(ctx context.Context, name, username, password, email, source string) (*User, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if !usernameRegexp.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if n := len([]rune(name)); n < 2 || n > 100 {
		return nil, ErrInvalidName
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ErrInvalidEmail
		}
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if email != "" {
		if _, err := s.store.FindByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, errors.Join(ErrStoreFailure, err)
		}
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	s.sink.Event(ctx, audit.Event{
		Type:     audit.EventUserRegistration,
		Severity: audit.SeverityInfo,
		Username: username,
		Source:   source,
		Success:  true,
	})

	return user, nil
}

// ChangePassword verifies the current password and replaces it with a new
// policy-conforming one. When a session revoker is installed, all of the
// user's sessions are invalidated afterwards.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword, source string) error {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return errors.Join(ErrStoreFailure, err)
	}

	if !s.VerifyPassword(user.PasswordHash, oldPassword) {
		s.sink.Event(ctx, audit.Event{
			Type:     audit.EventPasswordChange,
			Severity: audit.SeverityWarning,
			Username: username,
			Source:   source,
			Reason:   "current password verification failed",
		})
		return ErrInvalidCredentials
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	s.sink.Event(ctx, audit.Event{
		Type:     audit.EventPasswordChange,
		Severity: audit.SeverityInfo,
		Username: username,
		Source:   source,
		Success:  true,
	})

	if s.revokeSessions != nil {
		if err := s.revokeSessions(ctx, username); err != nil {
			return err
		}
	}
	return nil
}

// recordFailure registers a failed attempt, audits it, and raises a
// suspicious-activity event once the username's window is exhausted.
func (s *Service) recordFailure(ctx context.Context, username, source, reason string) error {
	if err := s.limiter.RecordFailure(ctx, source, username); err != nil {
		return err
	}

	s.sink.Event(ctx, audit.Event{
		Type:     audit.EventAuthenticationAttempt,
		Severity: audit.SeverityWarning,
		Username: username,
		Source:   source,
		Reason:   reason,
	})

	remaining, err := s.limiter.Remaining(ctx, source, username)
	if err == nil && remaining == 0 {
		s.sink.Event(ctx, audit.Event{
			Type:     audit.EventSuspiciousActivity,
			Severity: audit.SeverityCritical,
			Username: username,
			Source:   source,
			Reason:   "repeated authentication failures",
			Meta:     map[string]string{"max_attempts": strconv.Itoa(s.limiter.MaxAttempts())},
		})
	}

	return ErrInvalidCredentials
}

// sleep pauses for d or until the context is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
