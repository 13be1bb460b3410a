// Package crypto provides the content cipher for encrypted article bodies.
//
// The cipher is AES-256-GCM over a key derived from a passphrase with
// argon2id. Callers only ever see opaque tokens: Encode turns plaintext into
// a token, Decode turns a token back. Nothing outside this package inspects
// token internals.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the required size for AES-256 keys (32 bytes)
	KeySize = 32

	// argon2id parameters for passphrase-derived keys
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// keySalt is fixed so the same passphrase always yields the same key; tokens
// written by one process run must decode in the next.
var keySalt = []byte("articlevault.content.v1")

var (
	ErrInvalidKeySize = errors.New("cipher key must be 32 bytes for AES-256")
	ErrTokenTooShort  = errors.New("cipher token too short")
	ErrDecodeFailed   = errors.New("token decode failed: authentication error")
)

// Cipher encodes article bodies into opaque tokens and back.
type Cipher struct {
	key []byte
}

// NewCipher creates a Cipher from a raw key. Key must be exactly 32 bytes.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	keyCopy := make([]byte, KeySize)
	copy(keyCopy, key)

	return &Cipher{key: keyCopy}, nil
}

// NewCipherFromPassphrase derives the key from a passphrase with argon2id.
func NewCipherFromPassphrase(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("content passphrase is empty")
	}
	key := argon2.IDKey([]byte(passphrase), keySalt, argonTime, argonMemory, argonThreads, KeySize)
	return NewCipher(key)
}

// Encode encrypts plaintext and returns a base64 token (nonce prepended).
func (c *Cipher) Encode(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	token := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(token), nil
}

// Decode decrypts a token back into plaintext.
func (c *Cipher) Decode(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(raw) < gcm.NonceSize() {
		return "", ErrTokenTooShort
	}

	nonce := raw[:gcm.NonceSize()]
	raw = raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, raw, nil)
	if err != nil {
		return "", ErrDecodeFailed
	}

	return string(plaintext), nil
}
