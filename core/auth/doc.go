// Package auth implements credential management and login throttling for
// username/password authentication.
//
// The Service hashes passwords with bcrypt, enforces a password strength
// policy before hashing, rate-limits login attempts per source address and
// per username, and reports every security-relevant action to an audit
// sink. Authentication failures are uniform: a wrong password and an
// unknown username both produce ErrInvalidCredentials, and unknown
// usernames incur a fixed delay so response timing does not reveal
// account existence.
//
// # Usage
//
//	service, err := auth.NewService(store, policy, limiter, sink)
//	if err != nil {
//		// Handle error
//	}
//
//	user, err := service.Register(ctx, "Alice Jones", "alice", "Str0ng!pass", "alice@example.com", clientIP)
//	if err != nil {
//		// Handle validation or duplicate errors
//	}
//
//	user, err = service.Authenticate(ctx, "alice", "Str0ng!pass", clientIP)
//	switch {
//	case errors.Is(err, auth.ErrRateLimited):
//		// Too many recent failures
//	case errors.Is(err, auth.ErrInvalidCredentials):
//		// Wrong username or password
//	case err == nil:
//		// Authenticated
//	}
//
// Persistence is behind the UserStore interface; PostgresUserStore backs
// it with pgx, and tests substitute mocks.
package auth
