package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidKeyLength is returned when the decoded key is not a
	// valid AES key size.
	ErrInvalidKeyLength = errors.New("crypto key must decode to 16, 24 or 32 bytes")

	// ErrMalformedToken is returned when a ciphertext token is too
	// short to contain a nonce and at least one ciphertext byte.
	ErrMalformedToken = errors.New("malformed ciphertext token")
)

// FieldCipher encrypts and decrypts single text fields with AES-GCM.
// Tokens are base64(nonce || ciphertext || tag). The key is fixed for
// the process lifetime and the cipher is safe for concurrent use.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a FieldCipher from a base64-encoded key.
func NewFieldCipher(base64Key string) (*FieldCipher, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("decode crypto key: %w", err)
	}

	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt encrypts the plaintext under a fresh random nonce and
// returns the base64-encoded token.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends to nonce, so the result is nonce || ciphertext || tag.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any tampering or key mismatch fails the
// authentication tag check; garbage plaintext is never returned.
func (c *FieldCipher) Decrypt(token string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext token: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+1 {
		return "", ErrMalformedToken
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt field: %w", err)
	}

	return string(plaintext), nil
}
