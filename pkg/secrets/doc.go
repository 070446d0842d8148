// Package secrets provides AES-256-GCM encryption with HKDF key derivation
// for protecting sensitive fields at rest.
//
// Encryption keys are derived by combining a process-wide master key with an
// optional per-user key using HKDF (HMAC-based Key Derivation Function). This
// gives two deployment modes with one code path:
//   - Master key only: a single symmetric key protects all records.
//   - Master + user key: each user's records are additionally bound to a
//     per-user key for defense-in-depth.
//
// # Usage
//
// Key generation:
//
//	masterKey, err := secrets.GenerateKey() // 32 bytes (256 bits)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// String encryption (most common, base64-encoded output for text columns):
//
//	ciphertext, err := secrets.EncryptString(masterKey, nil, "account number")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plaintext, err := secrets.DecryptString(masterKey, nil, ciphertext)
//	if err != nil {
//		// ErrDecryptionFailed means tampering or a wrong key; the value
//		// must be treated as unreadable, never passed through.
//		log.Fatal(err)
//	}
//
// Binary data uses EncryptBytes/DecryptBytes with the same key semantics.
//
// # Security Properties
//
//   - AES-256-GCM provides both confidentiality and tamper detection.
//   - Each encryption uses a fresh random nonce, prepended to the ciphertext.
//   - Any modification of the ciphertext fails decryption with
//     ErrDecryptionFailed rather than yielding wrong plaintext.
//   - Derived keys are zeroed after each operation.
//
// # Error Handling
//
//   - ErrInvalidMasterKey / ErrInvalidUserKey: key is not 32 bytes
//   - ErrKeyDerivationFailed: HKDF derivation failed
//   - ErrEncryptionFailed: AES-GCM encryption failed
//   - ErrDecryptionFailed: authentication failed (tampering or wrong key)
//   - ErrInvalidCiphertext: ciphertext malformed, truncated, or not base64
package secrets
