// Package cryptox implements reversible field-level encryption for stored
// credentials. Values are encrypted with AES-256-GCM and encoded as base64;
// the random nonce is prepended to the ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Cipher reversibly encrypts short string values so they can be displayed
// back to authorized users. Implementations must guarantee
// Decrypt(Encrypt(x)) == x for all supported inputs.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ErrMalformedCiphertext indicates the stored value cannot be decrypted
// (wrong key, truncated payload, or corrupted data).
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// DeriveKey stretches a passphrase into a 32-byte AES key using Argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// AESGCM is the production Cipher backed by AES-256-GCM.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM constructs an AESGCM cipher from a 16/24/32-byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	return &AESGCM{aead: aead}, nil
}

func (c *AESGCM) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

func (c *AESGCM) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	return string(plaintext), nil
}
