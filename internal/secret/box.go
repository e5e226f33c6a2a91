// Package secret seals provider credentials before they reach the database.
package secret

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const sealedPrefix = "enc:v1:"

var ErrKeyRequired = errors.New("credentials key required to open sealed value")

// Box encrypts short strings with XChaCha20-Poly1305. A nil *Box stores
// values verbatim.
type Box struct {
	aead cipher.AEAD
}

func New(key []byte) (*Box, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials key: %w", err)
	}
	return &Box{aead: aead}, nil
}

// NewFromBase64 returns a nil Box when encoded is empty.
func NewFromBase64(encoded string) (*Box, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode credentials key: %w", err)
	}
	return New(key)
}

func (b *Box) Enabled() bool {
	return b != nil && b.aead != nil
}

func (b *Box) Seal(plaintext string) (string, error) {
	if !b.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, b.aead.NonceSize(), b.aead.NonceSize()+len(plaintext)+b.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open returns unsealed values unchanged so rows written before a key was
// configured stay readable.
func (b *Box) Open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	if !b.Enabled() {
		return "", ErrKeyRequired
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed value: %w", err)
	}
	if len(raw) < b.aead.NonceSize() {
		return "", fmt.Errorf("sealed value too short")
	}

	nonce, ciphertext := raw[:b.aead.NonceSize()], raw[b.aead.NonceSize():]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed value: %w", err)
	}
	return string(plaintext), nil
}
