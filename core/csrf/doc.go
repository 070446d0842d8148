// Package csrf issues and validates per-session anti-forgery tokens.
//
// Tokens bind a session identifier and an issuance timestamp together with
// an HMAC-SHA256 signature:
//
//	<sessionID>:<unix-timestamp>:<hex-signature>
//
// A token is accepted only when it parses, names the presenting session,
// is younger than the configured maximum age, and carries a valid
// signature. Validation failures are reported through distinct sentinel
// errors so handlers can log precisely while answering the client with a
// single generic rejection.
//
// # Usage
//
//	guard, err := csrf.New(secret, auditSink, csrf.WithMaxTokenAge(30*time.Minute))
//	if err != nil {
//		// Handle error
//	}
//
//	token := guard.Issue(sessionID)
//
//	if err := guard.Validate(ctx, token, sessionID); err != nil {
//		// Reject the request
//	}
//
// The guard is safe for concurrent use. RotateSecret swaps the signing
// secret at runtime; tokens issued under the previous secret become
// invalid immediately.
package csrf
