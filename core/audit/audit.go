// Package audit defines the security event contract between the
// access-control core and the application's audit pipeline.
//
// Every security-relevant decision (authentication attempts, session
// lifecycle changes, rate-limit denials, CSRF rejections, decryption
// failures) is reported as a structured Event to a Sink. The core only
// emits events; durability and downstream format belong to the sink
// implementation.
//
// SlogSink writes events as structured log records and is the default
// production sink. NopSink discards events and keeps tests quiet.
package audit

import (
	"context"
	"time"
)

// EventType identifies the class of a security event.
type EventType string

const (
	EventAuthenticationAttempt EventType = "authentication_attempt"
	EventUserRegistration      EventType = "user_registration"
	EventPasswordChange        EventType = "password_change"
	EventSessionCreated        EventType = "session_created"
	EventSessionExpired        EventType = "session_expired"
	EventSessionRevoked        EventType = "session_revoked"
	EventSessionRefreshed      EventType = "session_refreshed"
	EventRateLimitExceeded     EventType = "rate_limit_exceeded"
	EventSuspiciousActivity    EventType = "suspicious_activity"
	EventCSRFRejected          EventType = "csrf_rejected"
	EventDecryptionFailed      EventType = "decryption_failed"
	EventKeyRotated            EventType = "key_rotated"
)

// Severity grades an event for downstream alerting.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is a single structured security event.
// Key material and passwords must never appear in any field.
type Event struct {
	Type     EventType
	Severity Severity
	Username string
	Source   string
	Success  bool
	Reason   string
	Meta     map[string]string
	At       time.Time
}

// Sink receives security events. Implementations must be safe for
// concurrent use and must not block request handling for long; durable
// delivery is the sink's own concern.
type Sink interface {
	Event(ctx context.Context, e Event)
}

// NopSink discards all events.
type NopSink struct{}

// Event does nothing.
func (NopSink) Event(ctx context.Context, e Event) {}
