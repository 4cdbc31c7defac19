package obfuscate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	assert.Equal(t, DeriveKey("teacher1"), DeriveKey("teacher1"))
	assert.NotEqual(t, DeriveKey("teacher1"), DeriveKey("teacher2"))
	assert.Len(t, DeriveKey("teacher1"), 16)
}

func TestXORCodecRoundTrip(t *testing.T) {
	codec := NewXORCodec("teacher1")
	for _, s := range []string{"", "a", "Asha Patil", "धनश्री", "line1\nline2", "0123456789"} {
		assert.Equal(t, s, codec.Decode(codec.Encode(s)), "round trip for %q", s)
	}
}

func TestXORCodecEncodesDifferentlyPerUser(t *testing.T) {
	a := NewXORCodec("userA").Encode("same name")
	b := NewXORCodec("userB").Encode("same name")
	assert.NotEqual(t, a, b)
}

func TestXORCodecDecodeCorruptInputReturnsInput(t *testing.T) {
	codec := NewXORCodec("teacher1")
	for _, c := range []string{"not base64!!", "%%%", "a"} {
		assert.Equal(t, c, codec.Decode(c))
	}
}

func TestXORCodecEmptyString(t *testing.T) {
	codec := NewXORCodec("teacher1")
	assert.Equal(t, "", codec.Encode(""))
	assert.Equal(t, "", codec.Decode(""))
}

func TestSealedCodecRoundTrip(t *testing.T) {
	codec, err := NewSealedCodec("teacher1")
	require.NoError(t, err)

	cipher := codec.Encode("Asha Patil")
	assert.NotEqual(t, "Asha Patil", cipher)
	assert.Equal(t, "Asha Patil", codec.Decode(cipher))
}

func TestSealedCodecDecodeCorruptInputReturnsInput(t *testing.T) {
	codec, err := NewSealedCodec("teacher1")
	require.NoError(t, err)

	assert.Equal(t, "garbage", codec.Decode("garbage"))
	// Valid base64 but not a sealed payload.
	assert.Equal(t, "aGVsbG8=", codec.Decode("aGVsbG8="))
}
