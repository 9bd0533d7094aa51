// Package encryption seals free-text fields such as transaction notes before
// they are written to disk.
package encryption

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
)

// sealedPrefix marks a stored value as a fernet token.
const sealedPrefix = "fernet:"

// ErrUnreadable is returned when a sealed value cannot be opened with any
// configured key.
var ErrUnreadable = errors.New("sealed value cannot be decrypted with the configured keys")

// NoteCipher encrypts and decrypts notes with fernet. With no keys it stores
// notes unchanged.
type NoteCipher struct {
	keys []*fernet.Key
}

// NewNoteCipher decodes the given base64 fernet keys. The first key encrypts;
// every key is tried for decryption, which allows key rotation.
func NewNoteCipher(encodedKeys ...string) (*NoteCipher, error) {
	if len(encodedKeys) == 0 {
		return &NoteCipher{}, nil
	}
	keys, err := fernet.DecodeKeys(encodedKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode notes encryption key: %w", err)
	}
	return &NoteCipher{keys: keys}, nil
}

// Enabled reports whether notes are encrypted.
func (c *NoteCipher) Enabled() bool {
	return len(c.keys) > 0
}

// Seal encrypts plain for storage. Empty notes stay empty.
func (c *NoteCipher) Seal(plain string) (string, error) {
	if plain == "" || !c.Enabled() {
		return plain, nil
	}
	token, err := fernet.EncryptAndSign([]byte(plain), c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt note: %w", err)
	}
	return sealedPrefix + string(token), nil
}

// Open reverses Seal. Values stored before encryption was enabled are
// returned as-is.
func (c *NoteCipher) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if !c.Enabled() {
		return "", ErrUnreadable
	}
	plain := fernet.VerifyAndDecrypt([]byte(strings.TrimPrefix(stored, sealedPrefix)), 0, c.keys)
	if plain == nil {
		return "", ErrUnreadable
	}
	return string(plain), nil
}
