// Package passwordpolicy provides stateless password strength validation.
//
// The policy enforces length bounds, character class requirements (uppercase,
// lowercase, digit, symbol) and rejects passwords containing well-known weak
// substrings. Validation is a pure function with no I/O, suitable for use both
// at registration time and before hashing a new password.
//
// # Usage
//
// Default policy (8-128 characters, all four character classes, built-in
// weak-pattern blacklist):
//
//	policy := passwordpolicy.New()
//
//	if err := policy.Validate("Str0ng!Pass"); err != nil {
//		// err identifies the specific rule that failed
//		log.Println(err)
//	}
//
// Customized policy:
//
//	policy := passwordpolicy.New(
//		passwordpolicy.WithMinLength(12),
//		passwordpolicy.WithBlacklist("acme", "letmein"),
//	)
//
// # Error Handling
//
// Validate returns sentinel errors that can be matched with errors.Is:
//   - ErrEmptyPassword: password is empty
//   - ErrTooShort / ErrTooLong: length outside the configured bounds
//   - ErrMissingUppercase / ErrMissingLowercase: missing letter class
//   - ErrMissingDigit / ErrMissingSymbol: missing digit or symbol class
//   - ErrCommonPattern: password contains a blacklisted weak substring
//
// All checks run against the policy configured at construction time; the
// Policy value is immutable after New and safe for concurrent use.
package passwordpolicy
