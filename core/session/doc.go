// Package session manages the full lifecycle of signed user sessions:
// issuance, validation, refresh, and revocation.
//
// # Token Model
//
// A session token is an HMAC-SHA256 signed JWT embedding the session ID,
// user identity, source address, and issuance/expiry timestamps. Signature
// verification needs no server-side lookup, but the manager additionally
// tracks live sessions in a Store so that revocation and the concurrent
// session cap work: a token with a valid signature is still rejected when
// its session has been revoked or evicted.
//
// # Lifecycle
//
// A session moves through Created -> Active -> {Expired, Revoked}:
//
//   - Create mints a token and registers the live session. When the user
//     already holds the maximum number of live sessions, the oldest one
//     (by creation time) is evicted first.
//   - Validate checks, in order: token signature, absolute expiry, live
//     table presence, and inactivity timeout. On success it updates the
//     session's last-activity time. A mismatch between the token's source
//     address and the caller's is reported as suspicious activity but does
//     not by itself invalidate the session, since client networks
//     legitimately change.
//   - Refresh re-issues a session that is close to its absolute expiry,
//     atomically revoking the old one. Outside the refresh window the
//     original token is returned unchanged.
//   - Revoke and RevokeAll drop live sessions immediately; their tokens
//     fail validation from that point on even though the signature still
//     verifies.
//
// # Timeouts
//
// Two clocks limit a session independently: an absolute timeout measured
// from issuance (default 120 minutes) and an inactivity timeout measured
// from the last successful validation (default 30 minutes). Either expiring
// ends the session.
//
// # Storage
//
// The live-session table is behind the Store interface. MemoryStore keeps
// it per process; RedisStore shares it across instances and survives
// restarts. CleanupExpired should run periodically to drop dead entries.
//
// # Usage
//
//	signer, _ := jwt.NewFromString(signingSecret)
//	manager, err := session.NewManager(session.NewMemoryStore(), signer, sink,
//		session.WithAbsoluteTTL(2*time.Hour),
//		session.WithInactivityTimeout(30*time.Minute),
//		session.WithMaxConcurrent(3),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	token, err := manager.Create(ctx, userID, "alice", clientIP)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	claims, err := manager.Validate(ctx, token, clientIP)
//	switch {
//	case errors.Is(err, session.ErrExpired):
//		// absolute or inactivity timeout
//	case errors.Is(err, session.ErrRevoked):
//		// revoked or evicted
//	case errors.Is(err, session.ErrInvalidToken):
//		// malformed or tampered token
//	case err == nil:
//		// claims carry the verified identity
//	}
package session
