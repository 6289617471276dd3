package model

// Account represents a registered user as stored in the `accounts`
// table. The json tags are omitted here because these structs are
// used internally by the repository layer; handlers define separate
// response types with the JSON shape the API promises.
//
// Fields:
//  UUID         – primary key, UUIDv4 generated at sign-up.
//  Email        – unique, stored lower-cased and trimmed.
//  FirstName    – display first name.
//  LastName     – display last name.
//  PasswordHash – scrypt record "hex(salt):hex(key)"; never the plaintext.
//  Avatar       – optional avatar URI (empty when unset).
//  Bio          – free-text biography, empty by default.
//  CreatedAt    – creation time in milliseconds since epoch.
type Account struct {
	UUID         string // accounts.uuid
	Email        string // accounts.email
	FirstName    string // accounts.first_name
	LastName     string // accounts.last_name
	PasswordHash string // accounts.password_hash
	Avatar       string // accounts.avatar
	Bio          string // accounts.bio
	CreatedAt    int64  // accounts.created_at
}
