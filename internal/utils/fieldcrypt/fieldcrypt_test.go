package fieldcrypt_test

import (
	"bytes"
	"testing"

	"github.com/fxbureau/bureau_backend/internal/utils/fieldcrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *fieldcrypt.Codec {
	t.Helper()
	codec, err := fieldcrypt.NewCodec(bytes.Repeat([]byte{0x42}, fieldcrypt.KeySize))
	require.NoError(t, err)
	return codec
}

func TestNewCodec_RejectsBadKey(t *testing.T) {
	_, err := fieldcrypt.NewCodec([]byte("short"))
	assert.Error(t, err)

	_, err = fieldcrypt.NewCodecFromHex("not-hex")
	assert.Error(t, err)
}

func TestEncryptSearchable_IsDeterministic(t *testing.T) {
	codec := testCodec(t)

	first := codec.EncryptSearchable("SW1A1AA")
	second := codec.EncryptSearchable("SW1A1AA")
	assert.Equal(t, first, second, "identical plaintext must yield identical ciphertext")

	other := codec.EncryptSearchable("SW1A1AB")
	assert.NotEqual(t, first, other)

	plain, err := codec.Decrypt(first)
	require.NoError(t, err)
	assert.Equal(t, "SW1A1AA", plain)
}

func TestEncryptPrivate_IsRandomized(t *testing.T) {
	codec := testCodec(t)

	first, err := codec.EncryptPrivate("10 Downing Street")
	require.NoError(t, err)
	second, err := codec.EncryptPrivate("10 Downing Street")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "re-writes of the same plaintext must differ")

	for _, ct := range []string{first, second} {
		plain, err := codec.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, "10 Downing Street", plain)
	}
}

func TestDecrypt_FailsOnTamperedCiphertext(t *testing.T) {
	codec := testCodec(t)

	ct, err := codec.EncryptPrivate("jane@example.com")
	require.NoError(t, err)

	tampered := ct[:len(ct)-2] + "00"
	if tampered == ct {
		tampered = ct[:len(ct)-2] + "01"
	}
	_, err = codec.Decrypt(tampered)
	assert.Error(t, err)

	_, err = codec.Decrypt("zz")
	assert.Error(t, err)

	_, err = codec.Decrypt("abcd")
	assert.Error(t, err, "ciphertext shorter than nonce")
}

func TestCodecsWithDifferentKeysDoNotInterop(t *testing.T) {
	a := testCodec(t)
	b, err := fieldcrypt.NewCodec(bytes.Repeat([]byte{0x24}, fieldcrypt.KeySize))
	require.NoError(t, err)

	ct := a.EncryptSearchable("Jane")
	_, err = b.Decrypt(ct)
	assert.Error(t, err)
	assert.NotEqual(t, a.EncryptSearchable("Jane"), b.EncryptSearchable("Jane"))
}
