package auth

import "errors"

var (
	// ErrUserNotFound is returned by a UserStore when no user matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for any failed authentication,
	// whether the username is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrRateLimited is returned when the attempt limit for the source or
	// the username has been reached.
	ErrRateLimited = errors.New("too many failed attempts, try again later")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidUsername is returned when a username fails format rules.
	ErrInvalidUsername = errors.New("username must be 3-30 characters of letters, digits, underscore or hyphen")

	// ErrInvalidName is returned when a display name fails length rules.
	ErrInvalidName = errors.New("name must be 2-100 characters")

	// ErrInvalidEmail is returned when an email address is not structurally valid.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrHashingFailure is returned when the password hash cannot be computed.
	ErrHashingFailure = errors.New("failed to hash password")

	// ErrStoreFailure is returned when the user store fails unexpectedly.
	ErrStoreFailure = errors.New("user store failure")
)
