// Package fieldcrypt encrypts individual record fields at rest.
//
// Encrypted values are marked with the "encrypted:" prefix so they can
// coexist with plaintext values written before encryption was enabled:
// DecryptField returns unmarked values verbatim, while a marked value
// whose ciphertext fails authentication is a hard error. Silent fallback
// to the stored ciphertext is never acceptable for financial data; the
// caller must decide whether to surface or quarantine the record.
//
// # Usage
//
//	masterKey, err := keystore.LoadOrCreate(".finguard.key")
//	if err != nil {
//		// Handle error
//	}
//
//	cipher, err := fieldcrypt.New(masterKey, auditSink)
//	if err != nil {
//		// Handle error
//	}
//
//	stored, err := cipher.EncryptField("4111-1111-1111-1111")
//	plain, err := cipher.DecryptField(stored)
//
// ForUser derives a view whose ciphertexts are additionally bound to a
// per-user key, so one user's data cannot be decrypted in another user's
// context even with the master key in hand.
package fieldcrypt
