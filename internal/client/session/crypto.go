package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// saltKey holds the key-derivation salt next to the encrypted values.
const saltKey = "__salt"

// ErrDecrypt is returned when a stored value cannot be opened, usually
// because the passphrase differs from the one used to write it.
var ErrDecrypt = errors.New("session: cannot decrypt stored value")

// EncryptedStorage seals every value with AES-GCM before handing it to the
// wrapped Storage. Keys are stored in clear.
type EncryptedStorage struct {
	inner Storage
	aead  cipher.AEAD
	salt  string
}

// NewEncryptedStorage derives the sealing key from passphrase and the salt
// kept in inner, creating the salt on first use.
func NewEncryptedStorage(inner Storage, passphrase string) (*EncryptedStorage, error) {
	if passphrase == "" {
		return nil, errors.New("session: empty passphrase")
	}

	salt, ok, err := inner.Get(saltKey)
	if err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	if !ok {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(raw)
		if err := inner.Set(saltKey, salt); err != nil {
			return nil, fmt.Errorf("store salt: %w", err)
		}
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return nil, err
	}
	return &EncryptedStorage{inner: inner, aead: aead, salt: salt}, nil
}

func newAEAD(passphrase, salt string) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), []byte(salt), 2, 19*1024, 1, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}

func (e *EncryptedStorage) Get(key string) (string, bool, error) {
	enc, ok, err := e.inner.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil || len(data) < e.aead.NonceSize() {
		return "", false, ErrDecrypt
	}
	nonce, ct := data[:e.aead.NonceSize()], data[e.aead.NonceSize():]
	plain, err := e.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return "", false, ErrDecrypt
	}
	return string(plain), true, nil
}

func (e *EncryptedStorage) Set(key, value string) error {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	// result = nonce || ciphertext, bound to the key name
	sealed := e.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return e.inner.Set(key, base64.StdEncoding.EncodeToString(sealed))
}

func (e *EncryptedStorage) Delete(key string) error {
	return e.inner.Delete(key)
}

// Clear wipes the wrapped storage but keeps the salt so the derived key stays valid.
func (e *EncryptedStorage) Clear() error {
	if err := e.inner.Clear(); err != nil {
		return err
	}
	return e.inner.Set(saltKey, e.salt)
}
