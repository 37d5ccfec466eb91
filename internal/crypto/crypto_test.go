package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, 32))
	require.NoError(t, err)
	return c
}

func TestNewCipher_RejectsShortKeys(t *testing.T) {
	_, err := NewCipher([]byte("short"), bytes.Repeat([]byte{2}, 32))
	assert.Error(t, err)

	_, err = NewCipher(bytes.Repeat([]byte{1}, 32), []byte("short"))
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := testCipher(t)
	encrypted, err := c.Encrypt("today I felt calm after a long walk")
	require.NoError(t, err)
	assert.NotEqual(t, "today I felt calm after a long walk", encrypted)

	decrypted, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "today I felt calm after a long walk", decrypted)
}

func TestEncrypt_EmptyStaysEmpty(t *testing.T) {
	c := testCipher(t)
	encrypted, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, encrypted)

	decrypted, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, decrypted)
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	c := testCipher(t)
	a, err := c.Encrypt("same text")
	require.NoError(t, err)
	b, err := c.Encrypt("same text")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per encryption")
}

func TestBlindIndex_Deterministic(t *testing.T) {
	c := testCipher(t)
	assert.Equal(t, c.BlindIndex("user@example.com"), c.BlindIndex("user@example.com"))
	assert.NotEqual(t, c.BlindIndex("user@example.com"), c.BlindIndex("other@example.com"))
	assert.Empty(t, c.BlindIndex(""))
}

func TestDecrypt_RejectsGarbage(t *testing.T) {
	c := testCipher(t)
	_, err := c.Decrypt("not base64!!!")
	assert.Error(t, err)

	_, err = c.Decrypt("c2hvcnQ=") // valid base64, too short for a nonce
	assert.Error(t, err)
}
