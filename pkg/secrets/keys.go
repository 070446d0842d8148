package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// hkdfInfo domain-separates keys derived by this package from any other
// use of the same input key material.
var hkdfInfo = []byte("finguard/secrets/v1")

// GenerateKey returns a cryptographically secure random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}

// deriveKey combines the master key with an optional per-user key via HKDF.
// A nil userKey derives from the master key alone, so single-key deployments
// and per-user defense-in-depth share one code path.
func deriveKey(masterKey, userKey []byte) ([]byte, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidMasterKey
	}
	if userKey != nil && len(userKey) != KeySize {
		return nil, ErrInvalidUserKey
	}

	reader := hkdf.New(sha256.New, masterKey, userKey, hkdfInfo)

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derived, nil
}

// clearBytes zeroes sensitive material once it is no longer needed.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
