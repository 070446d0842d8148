// Package keystore manages symmetric key material persisted to restricted-permission files.
//
// A key file holds a single 32-byte key encoded as base64. Files are created
// with owner-only permissions (0600) and loading refuses group- or
// world-readable files so a misconfigured deployment fails at startup rather
// than silently exposing key material. Key bytes are never logged.
//
// LoadOrCreate is the common entry point: it loads the key when the file
// exists and otherwise generates a fresh one with a cryptographically secure
// random source. Rotate replaces the key on disk and returns both old and new
// keys so callers can run a re-encryption migration; values encrypted under
// the old key are unreadable once it is discarded.
package keystore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mfedosov/finguard/pkg/secrets"
)

var (
	// ErrKeyUnavailable is returned when the key file cannot be read or written.
	ErrKeyUnavailable = errors.New("key unavailable")
	// ErrBadPermissions is returned when the key file is readable by group or others.
	ErrBadPermissions = errors.New("key file must be readable only by its owner")
	// ErrMalformedKey is returned when the key file content is not a valid 32-byte key.
	ErrMalformedKey = errors.New("malformed key file")
)

// Load reads a key from the given file, enforcing owner-only permissions.
func Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Join(ErrKeyUnavailable, err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return nil, fmt.Errorf("%w: %s has mode %o", ErrBadPermissions, path, info.Mode().Perm())
	}

	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrKeyUnavailable, err)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return nil, errors.Join(ErrMalformedKey, err)
	}
	if len(key) != secrets.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedKey, len(key), secrets.KeySize)
	}

	return key, nil
}

// LoadOrCreate loads the key file, generating it first if absent.
func LoadOrCreate(path string) ([]byte, error) {
	key, err := Load(path)
	switch {
	case err == nil:
		return key, nil
	case errors.Is(err, fs.ErrNotExist):
		return create(path)
	default:
		return nil, err
	}
}

// Rotate generates a fresh key and atomically replaces the file content.
// Returns the previous and the new key so the caller can re-encrypt stored
// values before discarding the old key.
func Rotate(path string) (oldKey, newKey []byte, err error) {
	oldKey, err = Load(path)
	if err != nil {
		return nil, nil, err
	}

	newKey, err = secrets.GenerateKey()
	if err != nil {
		return nil, nil, errors.Join(ErrKeyUnavailable, err)
	}

	if err := write(path, newKey, os.O_WRONLY|os.O_TRUNC); err != nil {
		return nil, nil, err
	}

	return oldKey, newKey, nil
}

func create(path string) ([]byte, error) {
	key, err := secrets.GenerateKey()
	if err != nil {
		return nil, errors.Join(ErrKeyUnavailable, err)
	}

	// O_EXCL guards against two processes generating different keys for the
	// same file; the loser re-reads the winner's key.
	if err := write(path, key, os.O_WRONLY|os.O_CREATE|os.O_EXCL); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Load(path)
		}
		return nil, err
	}

	return key, nil
}

func write(path string, key []byte, flags int) error {
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return errors.Join(ErrKeyUnavailable, err)
	}

	_, writeErr := f.WriteString(base64.StdEncoding.EncodeToString(key))
	closeErr := f.Close()

	if writeErr != nil {
		return errors.Join(ErrKeyUnavailable, writeErr)
	}
	if closeErr != nil {
		return errors.Join(ErrKeyUnavailable, closeErr)
	}

	return nil
}
