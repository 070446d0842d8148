package jwt_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/pkg/jwt"
)

const testKey = "0123456789abcdef0123456789abcdef"

type customClaims struct {
	jwt.StandardClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()

		service, err := jwt.New([]byte(testKey))
		require.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})

	t.Run("short key", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New([]byte("too-short"))
		assert.ErrorIs(t, err, jwt.ErrInvalidSigningKey)
	})
}

func TestService_GenerateAndParse(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString(testKey)
	require.NoError(t, err)

	t.Run("round trip with custom claims", func(t *testing.T) {
		t.Parallel()

		claims := customClaims{
			StandardClaims: jwt.StandardClaims{
				Subject:   "user123",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
				IssuedAt:  time.Now().Unix(),
			},
			UserID:   123,
			Username: "alice",
		}

		token, err := service.Generate(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var parsed customClaims
		require.NoError(t, service.Parse(token, &parsed))
		assert.Equal(t, claims.UserID, parsed.UserID)
		assert.Equal(t, claims.Username, parsed.Username)
		assert.Equal(t, claims.Subject, parsed.Subject)
	})

	t.Run("nil claims", func(t *testing.T) {
		t.Parallel()

		_, err := service.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		token, err := service.Generate(jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, service.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("not yet valid token", func(t *testing.T) {
		t.Parallel()

		token, err := service.Generate(jwt.StandardClaims{
			NotBefore: time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, service.Parse(token, &parsed), jwt.ErrInvalidToken)
	})
}

func TestService_Parse_Tampering(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString(testKey)
	require.NoError(t, err)

	validToken, err := service.Generate(jwt.StandardClaims{
		Subject:   "user123",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.NewFromString("another-secret-key-32-bytes-long")
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, other.Parse(validToken, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("modified payload", func(t *testing.T) {
		t.Parallel()

		parts := strings.Split(validToken, ".")
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"attacker"}`))
		tampered := parts[0] + "." + payload + "." + parts[2]

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, service.Parse(tampered, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, service.Parse("not-a-jwt", &parsed), jwt.ErrInvalidToken)
		assert.ErrorIs(t, service.Parse("a.b", &parsed), jwt.ErrInvalidToken)
		assert.ErrorIs(t, service.Parse("", &parsed), jwt.ErrInvalidToken)
	})

	t.Run("algorithm substitution", func(t *testing.T) {
		t.Parallel()

		parts := strings.Split(validToken, ".")
		noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
		tampered := noneHeader + "." + parts[1] + "." + parts[2]

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, service.Parse(tampered, &parsed), jwt.ErrUnexpectedSigningMethod)
	})
}
