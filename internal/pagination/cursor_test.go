package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: 1735689600123, UUID: "b6102c6c-b2ea-4ffd-bb6d-888a8ab46511"}
	out, err := Decode(in.Encode())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsMalformedCursors(t *testing.T) {
	for _, raw := range []string{
		"not base64 ???",
		"aGVsbG8",       // "hello", no separator
		"OjEyMw",        // ":123", empty timestamp
		"MTIzOg",        // "123:", empty uuid
		"YWJjOmRlZg",    // "abc:def", timestamp not a number
		"LTU6YWJj",      // "-5:abc", negative timestamp
	} {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrBadCursor, "cursor %q", raw)
	}
}

func TestParseLimit(t *testing.T) {
	for raw, want := range map[string]int{
		"":   DefaultLimit,
		"5":  5,
		"10": 10,
		"50": 50,
	} {
		got, err := ParseLimit(raw)
		require.NoError(t, err, "limit %q", raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"4", "51", "0", "-1", "abc", "10.5", " 10"} {
		_, err := ParseLimit(raw)
		assert.ErrorIs(t, err, ErrBadLimit, "limit %q", raw)
	}
}
