package passwordpolicy

import (
	"strings"
	"unicode"
)

// defaultBlacklist contains substrings commonly found in breached passwords.
// Matching is case-insensitive.
var defaultBlacklist = []string{
	"12345",
	"password",
	"qwerty",
	"admin",
	"123456789",
	"abcdef",
	"111111",
	"000000",
}

// Policy validates passwords against configurable strength rules.
// The zero value is not usable; construct with New.
type Policy struct {
	minLength        int
	maxLength        int
	requireUppercase bool
	requireLowercase bool
	requireDigit     bool
	requireSymbol    bool
	blacklist        []string
}

// Option configures a Policy.
type Option func(*Policy)

// WithMinLength sets the minimum password length.
func WithMinLength(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.minLength = n
		}
	}
}

// WithMaxLength sets the maximum password length.
func WithMaxLength(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// WithoutCharacterClasses disables the uppercase/lowercase/digit/symbol requirements.
func WithoutCharacterClasses() Option {
	return func(p *Policy) {
		p.requireUppercase = false
		p.requireLowercase = false
		p.requireDigit = false
		p.requireSymbol = false
	}
}

// WithBlacklist replaces the default weak-pattern blacklist.
// Entries are matched as case-insensitive substrings.
func WithBlacklist(patterns ...string) Option {
	return func(p *Policy) {
		p.blacklist = make([]string, 0, len(patterns))
		for _, pattern := range patterns {
			if pattern != "" {
				p.blacklist = append(p.blacklist, strings.ToLower(pattern))
			}
		}
	}
}

// New creates a password policy. Without options the policy requires
// 8-128 characters, all four character classes, and rejects the built-in
// weak-pattern blacklist.
func New(opts ...Option) *Policy {
	p := &Policy{
		minLength:        8,
		maxLength:        128,
		requireUppercase: true,
		requireLowercase: true,
		requireDigit:     true,
		requireSymbol:    true,
		blacklist:        defaultBlacklist,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Validate checks the password against the policy.
// Returns nil when the password satisfies every rule, or the sentinel error
// identifying the first rule that failed.
func (p *Policy) Validate(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	// Length rules count runes, not bytes, so multi-byte characters are
	// not penalized.
	length := len([]rune(password))
	if length < p.minLength {
		return ErrTooShort
	}
	if length > p.maxLength {
		return ErrTooLong
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if p.requireUppercase && !hasUpper {
		return ErrMissingUppercase
	}
	if p.requireLowercase && !hasLower {
		return ErrMissingLowercase
	}
	if p.requireDigit && !hasDigit {
		return ErrMissingDigit
	}
	if p.requireSymbol && !hasSymbol {
		return ErrMissingSymbol
	}

	lowered := strings.ToLower(password)
	for _, pattern := range p.blacklist {
		if strings.Contains(lowered, pattern) {
			return ErrCommonPattern
		}
	}

	return nil
}
