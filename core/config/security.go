package config

import "time"

// AuthConfig holds credential-handling parameters.
type AuthConfig struct {
	BcryptCost       int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	UnknownUserDelay time.Duration `env:"AUTH_UNKNOWN_USER_DELAY" envDefault:"500ms"`
}

// RateLimiterConfig holds login-throttling parameters.
type RateLimiterConfig struct {
	MaxAttempts int           `env:"RATELIMIT_MAX_ATTEMPTS" envDefault:"5"`
	Window      time.Duration `env:"RATELIMIT_WINDOW" envDefault:"15m"`
}

// SessionConfig holds session lifetime parameters.
type SessionConfig struct {
	SigningKey        string        `env:"SESSION_SIGNING_KEY,required"`
	AbsoluteTTL       time.Duration `env:"SESSION_ABSOLUTE_TTL" envDefault:"2h"`
	InactivityTimeout time.Duration `env:"SESSION_INACTIVITY_TIMEOUT" envDefault:"30m"`
	MaxConcurrent     int           `env:"SESSION_MAX_CONCURRENT" envDefault:"3"`
	RefreshWindow     time.Duration `env:"SESSION_REFRESH_WINDOW" envDefault:"30m"`
}

// CSRFConfig holds anti-forgery token parameters.
type CSRFConfig struct {
	Secret      string        `env:"CSRF_SECRET,required"`
	MaxTokenAge time.Duration `env:"CSRF_MAX_TOKEN_AGE" envDefault:"1h"`
}

// KeystoreConfig locates the master encryption key on disk.
type KeystoreConfig struct {
	KeyPath string `env:"ENCRYPTION_KEY_PATH" envDefault:".finguard.key"`
}
