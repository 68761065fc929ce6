package backup

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/insuite-dev/insuite/internal/shared"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"version":1,"company":{"name":"Acme Traders"}}`)

	sealed, err := Encrypt(plaintext)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(sealed, []byte(magic)))
	require.Greater(t, len(sealed), len(magic)+ivSize+len(plaintext))

	opened, err := Decrypt(sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestEncryptUsesFreshIV(t *testing.T) {
	plaintext := []byte("same payload")

	a, err := Encrypt(plaintext)
	require.NoError(t, err)
	b, err := Encrypt(plaintext)
	require.NoError(t, err)

	require.NotEqual(t, a[len(magic):len(magic)+ivSize], b[len(magic):len(magic)+ivSize])
	require.NotEqual(t, a, b)
}

func TestDecryptRejectsShortFile(t *testing.T) {
	_, err := Decrypt([]byte("short"))
	require.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestDecryptRejectsWrongMagic(t *testing.T) {
	sealed, err := Encrypt([]byte("payload"))
	require.NoError(t, err)
	sealed[0] ^= 0xFF

	_, err = Decrypt(sealed)
	require.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	sealed, err := Encrypt([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0x01

	_, err = Decrypt(sealed)
	require.ErrorIs(t, err, shared.ErrDecryption)
}

func TestDecryptRejectsTamperedIV(t *testing.T) {
	sealed, err := Encrypt([]byte("payload"))
	require.NoError(t, err)
	sealed[len(magic)] ^= 0x01

	_, err = Decrypt(sealed)
	require.ErrorIs(t, err, shared.ErrDecryption)
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "acme-traders", slugify("Acme Traders"))
	require.Equal(t, "acme-co", slugify("Acme & Co."))
	require.Equal(t, "company", slugify("株式会社"))
}
