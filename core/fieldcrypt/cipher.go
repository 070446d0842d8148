package fieldcrypt

import (
	"context"
	"errors"
	"strings"

	"github.com/mfedosov/finguard/core/audit"
	"github.com/mfedosov/finguard/pkg/secrets"
)

// Prefix marks a stored value as ciphertext. Values without it are
// treated as legacy plaintext and pass through DecryptField untouched.
const Prefix = "encrypted:"

// ErrDecryptionFailed is returned when a marked value cannot be
// authenticated. It wraps the secrets-layer error.
var ErrDecryptionFailed = secrets.ErrDecryptionFailed

// Cipher encrypts and decrypts record fields using the compound
// master/user key scheme from pkg/secrets.
type Cipher struct {
	masterKey []byte
	userKey   []byte
	sink      audit.Sink
}

// New creates a field cipher bound to the master key. The sink may be nil
// to disable audit events.
func New(masterKey []byte, sink audit.Sink) (*Cipher, error) {
	if len(masterKey) == 0 {
		return nil, secrets.ErrInvalidMasterKey
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Cipher{
		masterKey: append([]byte(nil), masterKey...),
		sink:      sink,
	}, nil
}

// ForUser returns a view of the cipher whose ciphertexts are bound to the
// given per-user key in addition to the master key.
func (c *Cipher) ForUser(userKey []byte) *Cipher {
	return &Cipher{
		masterKey: c.masterKey,
		userKey:   append([]byte(nil), userKey...),
		sink:      c.sink,
	}
}

// EncryptField encrypts a single field value. Empty input stays empty so
// optional columns round-trip without growing ciphertext.
func (c *Cipher) EncryptField(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	encrypted, err := secrets.EncryptString(c.masterKey, c.userKey, plaintext)
	if err != nil {
		return "", err
	}
	return Prefix + encrypted, nil
}

// DecryptField reverses EncryptField. Values without the ciphertext
// marker are returned verbatim; marked values that fail authentication
// are a hard failure, audited as a decryption_failed event.
func (c *Cipher) DecryptField(ctx context.Context, stored string) (string, error) {
	if stored == "" {
		return "", nil
	}

	encoded, marked := strings.CutPrefix(stored, Prefix)
	if !marked {
		return stored, nil
	}

	plaintext, err := secrets.DecryptString(c.masterKey, c.userKey, encoded)
	if err != nil {
		c.sink.Event(ctx, audit.Event{
			Type:     audit.EventDecryptionFailed,
			Severity: audit.SeverityCritical,
			Reason:   "field ciphertext failed authentication",
		})
		return "", errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// EncryptMap encrypts the named sensitive fields of a record in place,
// returning a new map. Fields absent from the record are skipped.
func (c *Cipher) EncryptMap(fields map[string]string, sensitive []string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range sensitive {
		value, ok := out[name]
		if !ok {
			continue
		}
		encrypted, err := c.EncryptField(value)
		if err != nil {
			return nil, err
		}
		out[name] = encrypted
	}
	return out, nil
}

// DecryptMap reverses EncryptMap with the same hard-failure semantics as
// DecryptField: one unauthenticated field fails the whole record.
func (c *Cipher) DecryptMap(ctx context.Context, fields map[string]string, sensitive []string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range sensitive {
		value, ok := out[name]
		if !ok {
			continue
		}
		plaintext, err := c.DecryptField(ctx, value)
		if err != nil {
			return nil, err
		}
		out[name] = plaintext
	}
	return out, nil
}

// ReEncrypt decrypts a stored value with the old cipher and encrypts it
// under this one. Legacy plaintext values are encrypted for the first
// time, so a sweep with ReEncrypt also completes the initial migration.
func (c *Cipher) ReEncrypt(ctx context.Context, stored string, old *Cipher) (string, error) {
	plaintext, err := old.DecryptField(ctx, stored)
	if err != nil {
		return "", err
	}
	return c.EncryptField(plaintext)
}
