package mfa

import (
	"encoding/base64"
	"fmt"
)

// Encryptor defines the interface for encrypting/decrypting.
type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider provides raw AES keys.
// For AES-256-GCM, keys must be 32 bytes.
type KeyProvider interface {
	Key(scope Scope) ([]byte, error)
}

// Sealer stores secrets as base64 text so they fit a plain TEXT column.
type Sealer struct {
	enc Encryptor
}

// NewSealer wraps enc.
func NewSealer(enc Encryptor) *Sealer {
	return &Sealer{enc: enc}
}

// Seal encrypts secret for scope and returns the storable form.
func (s *Sealer) Seal(secret string, scope Scope) (string, error) {
	ct, err := s.enc.Encrypt([]byte(secret), scope)
	if err != nil {
		return "", err
	}

	return base64.RawStdEncoding.EncodeToString(ct), nil
}

// Open reverses Seal. A value sealed under a different scope fails with ErrDecryptFailed.
func (s *Sealer) Open(sealed string, scope Scope) (string, error) {
	ct, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("mfacrypto: decode sealed value: %w", err)
	}

	plain, err := s.enc.Decrypt(ct, scope)
	if err != nil {
		return "", err
	}

	return string(plain), nil
}
