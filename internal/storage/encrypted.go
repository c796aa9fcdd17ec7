package storage

import (
	"github.com/johnrirwin/newsdesk/internal/crypto"
)

// Encrypted seals values before they reach the inner backend. A value that
// fails to open (plaintext left from before encryption was enabled, or a
// rotated key) reads as absent, which ends the stored session.
type Encrypted struct {
	inner Storage
	enc   *crypto.Encryptor
}

// NewEncrypted wraps inner with enc
func NewEncrypted(inner Storage, enc *crypto.Encryptor) *Encrypted {
	return &Encrypted{inner: inner, enc: enc}
}

func (e *Encrypted) Get(key string) (string, bool) {
	sealed, ok := e.inner.Get(key)
	if !ok {
		return "", false
	}
	v, err := e.enc.Decrypt(key, sealed)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (e *Encrypted) Set(key, value string) error {
	sealed, err := e.enc.Encrypt(key, value)
	if err != nil {
		return err
	}
	return e.inner.Set(key, sealed)
}

func (e *Encrypted) Remove(key string) error {
	return e.inner.Remove(key)
}

// Unwrap returns the inner backend
func (e *Encrypted) Unwrap() Storage {
	return e.inner
}

var _ Storage = (*Encrypted)(nil)
