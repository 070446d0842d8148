package secrets_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/pkg/secrets"
)

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	key1, err := secrets.GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key1, secrets.KeySize)

	key2, err := secrets.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}

func TestEncryptDecryptString(t *testing.T) {
	t.Parallel()

	masterKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"ordinary value", "account 12345-6"},
		{"empty string", ""},
		{"unicode", "chave secreta à prova de violação"},
		{"long value", string(make([]byte, 4096))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ciphertext, err := secrets.EncryptString(masterKey, nil, tt.plaintext)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, ciphertext)

			decrypted, err := secrets.DecryptString(masterKey, nil, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestEncryptString_UniqueNonce(t *testing.T) {
	t.Parallel()

	masterKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	first, err := secrets.EncryptString(masterKey, nil, "same input")
	require.NoError(t, err)
	second, err := secrets.EncryptString(masterKey, nil, "same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	t.Parallel()

	masterKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := secrets.EncryptString(masterKey, nil, "sensitive value")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)

	// Flipping any single bit must break authentication.
	for _, pos := range []int{0, len(raw) / 2, len(raw) - 1} {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[pos] ^= 0x01

		_, err := secrets.DecryptString(masterKey, nil, base64.StdEncoding.EncodeToString(tampered))
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed, "bit flip at %d", pos)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	t.Parallel()

	key1, err := secrets.GenerateKey()
	require.NoError(t, err)
	key2, err := secrets.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := secrets.EncryptString(key1, nil, "sensitive value")
	require.NoError(t, err)

	_, err = secrets.DecryptString(key2, nil, ciphertext)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestUserKeyIsolation(t *testing.T) {
	t.Parallel()

	masterKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	aliceKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	bobKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := secrets.EncryptString(masterKey, aliceKey, "alice's balance")
	require.NoError(t, err)

	// Correct compound key decrypts.
	plaintext, err := secrets.DecryptString(masterKey, aliceKey, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "alice's balance", plaintext)

	// Another user's key does not, nor does the master key alone.
	_, err = secrets.DecryptString(masterKey, bobKey, ciphertext)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	_, err = secrets.DecryptString(masterKey, nil, ciphertext)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestKeyValidation(t *testing.T) {
	t.Parallel()

	validKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	_, err = secrets.EncryptString([]byte("short"), nil, "x")
	assert.ErrorIs(t, err, secrets.ErrInvalidMasterKey)

	_, err = secrets.EncryptString(validKey, []byte("short"), "x")
	assert.ErrorIs(t, err, secrets.ErrInvalidUserKey)
}

func TestDecrypt_MalformedCiphertext(t *testing.T) {
	t.Parallel()

	masterKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	_, err = secrets.DecryptString(masterKey, nil, "not-base64!!!")
	assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)

	// Valid base64 but shorter than a GCM nonce.
	_, err = secrets.DecryptString(masterKey, nil, base64.StdEncoding.EncodeToString([]byte("abc")))
	assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
}
