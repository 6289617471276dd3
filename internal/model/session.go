package model

// Session models a row of the `sessions` table. The token itself is
// the primary key: it is a 64-byte cryptographically random value,
// hex encoded, and acts as the sole capability needed to act as the
// owning account. A session is valid iff the row exists and
// ExpiresAt is still in the future; expiry is checked lazily when
// the token is used, never by a background sweeper.
//
// Fields:
//  Token       – primary key, 128 hex characters.
//  AccountUUID – owning account.
//  ExpiresAt   – absolute expiry in milliseconds since epoch.
//  IPAddress   – client address captured when the session was created.
type Session struct {
	Token       string // sessions.token
	AccountUUID string // sessions.account_uuid
	ExpiresAt   int64  // sessions.expires_at
	IPAddress   string // sessions.ip_address
}
