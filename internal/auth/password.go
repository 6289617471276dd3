// Package auth provides credential hashing and session token
// generation. Passwords are derived with scrypt, a deliberately slow
// and memory-hard KDF, so a single derivation costs tens of
// milliseconds on commodity hardware.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt work factors. Changing these invalidates no stored record:
// verification re-derives with the stored salt and the same factors,
// so bump them only together with a record-version scheme.
const (
	scryptN    = 32768
	scryptR    = 8
	scryptP    = 1
	saltLen    = 16
	derivedLen = 64
)

// HashSecret derives a storage record for the given plaintext secret.
// The record is "hex(salt):hex(derivedKey)" with a fresh 16-byte
// random salt, stored as one opaque string. The plaintext is never
// stored or logged.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, derivedLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifySecret re-derives the key using the salt embedded in record
// and compares in constant time. A malformed record fails closed:
// the function returns false, it never panics past this boundary.
func VerifySecret(secret, record string) bool {
	saltHex, keyHex, ok := strings.Cut(record, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) != derivedLen {
		return false
	}
	got, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, derivedLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
