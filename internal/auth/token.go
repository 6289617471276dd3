package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the amount of randomness behind a session token.
// 64 bytes hex-encode to 128 characters; collisions are negligible.
const TokenBytes = 64

// NewSessionToken returns a fresh opaque bearer token. The value is
// returned in cleartext exactly once, at session creation; it is the
// primary key of the sessions table thereafter.
func NewSessionToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
