package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCipher(t *testing.T) {
	t.Run("valid key size", func(t *testing.T) {
		key := make([]byte, 32)
		c, err := NewCipher(key)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("invalid key size - too short", func(t *testing.T) {
		key := make([]byte, 16)
		c, err := NewCipher(key)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, c)
	})

	t.Run("invalid key size - too long", func(t *testing.T) {
		key := make([]byte, 64)
		c, err := NewCipher(key)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, c)
	})
}

func TestNewCipherFromPassphrase(t *testing.T) {
	t.Run("derives a usable cipher", func(t *testing.T) {
		c, err := NewCipherFromPassphrase("hunter2")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("empty passphrase rejected", func(t *testing.T) {
		c, err := NewCipherFromPassphrase("")
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("same passphrase yields interoperable ciphers", func(t *testing.T) {
		c1, err := NewCipherFromPassphrase("stable-passphrase")
		require.NoError(t, err)
		c2, err := NewCipherFromPassphrase("stable-passphrase")
		require.NoError(t, err)

		token, err := c1.Encode("cross-run content")
		require.NoError(t, err)

		plaintext, err := c2.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "cross-run content", plaintext)
	})
}

func TestEncodeDecode(t *testing.T) {
	c, err := NewCipherFromPassphrase("test-passphrase")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		plaintext := "the body of an encrypted article"
		token, err := c.Encode(plaintext)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEqual(t, plaintext, token)

		decoded, err := c.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decoded)
	})

	t.Run("empty string", func(t *testing.T) {
		token, err := c.Encode("")
		require.NoError(t, err)
		assert.Empty(t, token)

		decoded, err := c.Decode("")
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})

	t.Run("unicode text", func(t *testing.T) {
		plaintext := "🔐 Тест Unicode текст 日本語"
		token, err := c.Encode(plaintext)
		require.NoError(t, err)

		decoded, err := c.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decoded)
	})

	t.Run("unique tokens for same plaintext", func(t *testing.T) {
		plaintext := "same-text"
		token1, err := c.Encode(plaintext)
		require.NoError(t, err)

		token2, err := c.Encode(plaintext)
		require.NoError(t, err)

		// Random nonce, so tokens differ
		assert.NotEqual(t, token1, token2)

		decoded1, err := c.Decode(token1)
		require.NoError(t, err)
		decoded2, err := c.Decode(token2)
		require.NoError(t, err)
		assert.Equal(t, decoded1, decoded2)
	})
}

func TestDecodeErrors(t *testing.T) {
	c, err := NewCipherFromPassphrase("test-passphrase")
	require.NoError(t, err)

	t.Run("invalid base64", func(t *testing.T) {
		_, err := c.Decode("not-valid-base64!!!")
		assert.Error(t, err)
	})

	t.Run("token too short", func(t *testing.T) {
		// Less than nonce size (12 bytes)
		shortData := base64.StdEncoding.EncodeToString([]byte("short"))
		_, err := c.Decode(shortData)
		assert.ErrorIs(t, err, ErrTokenTooShort)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := c.Encode("secret")
		require.NoError(t, err)

		data, _ := base64.StdEncoding.DecodeString(token)
		data[len(data)-1] ^= 0xFF
		tampered := base64.StdEncoding.EncodeToString(data)

		_, err = c.Decode(tampered)
		assert.ErrorIs(t, err, ErrDecodeFailed)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		token, err := c.Encode("secret")
		require.NoError(t, err)

		other, err := NewCipherFromPassphrase("different-passphrase")
		require.NoError(t, err)

		_, err = other.Decode(token)
		assert.ErrorIs(t, err, ErrDecodeFailed)
	})
}
