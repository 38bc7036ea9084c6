package models

import "time"

// User represents a server-side account record used for authentication.
// The server never sees the master secret or the vault encryption key: the
// only credential it stores is a one-way hash of AuthCredential.
type User struct {
	// UserID is the internal unique identifier of the user.
	// Not exposed via JSON; used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// AuthCredential is the client-computed login credential: a one-way
	// hash derived from the vault key with a distinct domain constant, so
	// it is unrelated to the encryption key material. The server re-hashes
	// it with HMAC before storage.
	AuthCredential string `json:"credential,omitempty"`

	// EncryptionSalt is the raw per-account salt used by the client for key
	// derivation, stored as bytes and base64-encoded only at the HTTP
	// boundary. It is public: retrievable before login, useless without the
	// master secret.
	EncryptionSalt []byte `json:"account_salt,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// TableName returns the name of the database table associated with the
// User model.
func (u User) TableName() string {
	return "users"
}
