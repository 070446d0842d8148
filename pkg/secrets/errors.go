package secrets

import "errors"

var (
	// ErrInvalidMasterKey is returned when the master key is not 32 bytes.
	ErrInvalidMasterKey = errors.New("master key must be 32 bytes")
	// ErrInvalidUserKey is returned when a non-nil user key is not 32 bytes.
	ErrInvalidUserKey = errors.New("user key must be 32 bytes")
	// ErrKeyDerivationFailed is returned when HKDF key derivation fails.
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	// ErrEncryptionFailed is returned when AES-GCM encryption fails.
	ErrEncryptionFailed = errors.New("encryption failed")
	// ErrDecryptionFailed is returned when authentication fails during decryption,
	// indicating tampering or a wrong key.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrInvalidCiphertext is returned when the ciphertext is malformed or truncated.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)
