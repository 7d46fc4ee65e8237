package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T, size int) string {
	t.Helper()
	key := make([]byte, size)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestNewFieldCipherKeyLength(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		_, err := NewFieldCipher(testKey(t, size))
		assert.NoError(t, err, "key size %d", size)
	}

	for _, size := range []int{0, 15, 17, 33, 64} {
		_, err := NewFieldCipher(testKey(t, size))
		assert.ErrorIs(t, err, ErrInvalidKeyLength, "key size %d", size)
	}

	_, err := NewFieldCipher("not-base64!!!")
	assert.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewFieldCipher(testKey(t, 32))
	require.NoError(t, err)

	for _, plaintext := range []string{
		"Ana Souza",
		"12345678900",
		"",
		"äçcéntš and 漢字",
		"a very long patient name that exceeds a single AES block by a wide margin",
	} {
		token, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c, err := NewFieldCipher(testKey(t, 16))
	require.NoError(t, err)

	first, err := c.Encrypt("Ana")
	require.NoError(t, err)
	second, err := c.Encrypt("Ana")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh nonce must yield distinct tokens")
}

func TestDecryptRejectsTamperedToken(t *testing.T) {
	c, err := NewFieldCipher(testKey(t, 32))
	require.NoError(t, err)

	token, err := c.Encrypt("12345678900")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := c.Decrypt(base64.StdEncoding.EncodeToString(tampered))
		assert.Error(t, err, "flipped byte %d must not decrypt", i)
	}
}

func TestDecryptRejectsShortToken(t *testing.T) {
	c, err := NewFieldCipher(testKey(t, 16))
	require.NoError(t, err)

	// Anything up to nonce length carries no ciphertext byte.
	for size := 0; size <= 12; size++ {
		token := base64.StdEncoding.EncodeToString(make([]byte, size))
		_, err := c.Decrypt(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "size %d", size)
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	c1, err := NewFieldCipher(testKey(t, 32))
	require.NoError(t, err)

	other := make([]byte, 32)
	for i := range other {
		other[i] = byte(255 - i)
	}
	c2, err := NewFieldCipher(base64.StdEncoding.EncodeToString(other))
	require.NoError(t, err)

	token, err := c1.Encrypt("Ana")
	require.NoError(t, err)

	_, err = c2.Decrypt(token)
	assert.Error(t, err)
}
