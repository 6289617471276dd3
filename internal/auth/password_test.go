package auth

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	record, err := HashSecret("correct horse battery staple")
	require.NoError(t, err)

	saltHex, keyHex, ok := strings.Cut(record, ":")
	require.True(t, ok, "record must be salt:key")
	salt, err := hex.DecodeString(saltHex)
	require.NoError(t, err)
	assert.Len(t, salt, saltLen)
	key, err := hex.DecodeString(keyHex)
	require.NoError(t, err)
	assert.Len(t, key, derivedLen)

	assert.True(t, VerifySecret("correct horse battery staple", record))
	assert.False(t, VerifySecret("correct horse battery stapl", record))
}

func TestHashSecretSaltsDiffer(t *testing.T) {
	a, err := HashSecret("same password")
	require.NoError(t, err)
	b, err := HashSecret("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same secret must use different salts")
	assert.True(t, VerifySecret("same password", a))
	assert.True(t, VerifySecret("same password", b))
}

func TestVerifySecretFailsClosedOnMalformedRecord(t *testing.T) {
	for _, record := range []string{
		"",
		"nocolonatall",
		"zz:zz",                 // not hex
		"abcd:1234",             // wrong derived length
		":",                     // empty halves
		"deadbeef:",             // empty key
		strings.Repeat(":", 10), // colon soup
	} {
		assert.False(t, VerifySecret("whatever", record), "record %q must not verify", record)
	}
}

func TestNewSessionToken(t *testing.T) {
	a, err := NewSessionToken()
	require.NoError(t, err)
	b, err := NewSessionToken()
	require.NoError(t, err)

	assert.Len(t, a, TokenBytes*2)
	assert.NotEqual(t, a, b)
	_, err = hex.DecodeString(a)
	assert.NoError(t, err)
}
