package pg

import "errors"

var (
	// ErrEmptyConnectionString is returned when no connection string is configured.
	ErrEmptyConnectionString = errors.New("empty postgres connection string")
	// ErrFailedToParseConfig is returned when the connection string cannot be parsed.
	ErrFailedToParseConfig = errors.New("failed to parse postgres config")
	// ErrNotReady is returned when the database did not accept connections in time.
	ErrNotReady = errors.New("postgres did not become ready within the given time period")
	// ErrMigrationFailed is returned when applying migrations fails.
	ErrMigrationFailed = errors.New("failed to apply database migrations")
	// ErrHealthcheckFailed is returned when the connectivity probe fails.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")
)
