package passwordpolicy

import "errors"

var (
	// ErrEmptyPassword is returned when the password is empty.
	ErrEmptyPassword = errors.New("password is required")
	// ErrTooShort is returned when the password is shorter than the minimum length.
	ErrTooShort = errors.New("password is too short")
	// ErrTooLong is returned when the password exceeds the maximum length.
	ErrTooLong = errors.New("password is too long")
	// ErrMissingUppercase is returned when the password has no uppercase letter.
	ErrMissingUppercase = errors.New("password must contain an uppercase letter")
	// ErrMissingLowercase is returned when the password has no lowercase letter.
	ErrMissingLowercase = errors.New("password must contain a lowercase letter")
	// ErrMissingDigit is returned when the password has no digit.
	ErrMissingDigit = errors.New("password must contain a digit")
	// ErrMissingSymbol is returned when the password has no symbol character.
	ErrMissingSymbol = errors.New("password must contain a symbol")
	// ErrCommonPattern is returned when the password contains a blacklisted weak substring.
	ErrCommonPattern = errors.New("password contains a common weak pattern")
)
