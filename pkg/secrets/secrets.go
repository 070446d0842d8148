package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// EncryptBytes encrypts plaintext with AES-256-GCM under a key derived from
// the master key and optional per-user key. The random nonce is prepended to
// the returned ciphertext.
func EncryptBytes(masterKey, userKey, plaintext []byte) ([]byte, error) {
	key, err := deriveKey(masterKey, userKey)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptBytes reverses EncryptBytes. Returns ErrDecryptionFailed when the
// authentication tag does not verify, which indicates tampering or a wrong key.
func DecryptBytes(masterKey, userKey, ciphertext []byte) ([]byte, error) {
	key, err := deriveKey(masterKey, userKey)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, ErrInvalidCiphertext
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// EncryptString encrypts a string and returns the ciphertext base64-encoded
// for storage in text columns.
func EncryptString(masterKey, userKey []byte, plaintext string) (string, error) {
	encrypted, err := EncryptBytes(masterKey, userKey, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// DecryptString reverses EncryptString.
func DecryptString(masterKey, userKey []byte, ciphertext string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := DecryptBytes(masterKey, userKey, decoded)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
