package models

// Wire payloads exchanged between the client adapter and the HTTP server.
// Vault contents cross this boundary only as ciphertext.

// RegisterRequest creates a new account. AccountSalt is generated on the
// client at registration time and stored server-side alongside (but
// independent of) the hashed credential.
type RegisterRequest struct {
	Login          string `json:"login"`
	AuthCredential string `json:"credential"`
	AccountSalt    string `json:"account_salt"`
}

// RegisterResponse echoes the stored account salt back to the client.
type RegisterResponse struct {
	AccountSalt string `json:"account_salt"`
}

// ParamsRequest asks for the public derivation parameters of an account.
// It is served without token validation: the salt is needed before the
// client can derive a key and log in.
type ParamsRequest struct {
	Login string `json:"login"`
}

// ParamsResponse carries the per-account salt for client-side derivation.
type ParamsResponse struct {
	AccountSalt string `json:"account_salt"`
}

// LoginRequest authenticates with the derived credential, never the master
// secret itself.
type LoginRequest struct {
	Login          string `json:"login"`
	AuthCredential string `json:"credential"`
}

// LoginResponse returns the issued session token and the account salt so a
// fresh device can derive the vault key in one round trip.
type LoginResponse struct {
	SessionToken string `json:"session_token"`
	AccountSalt  string `json:"account_salt"`
}

// VaultGetResponse is the server's current vault blob and revision.
type VaultGetResponse struct {
	Ciphertext     string `json:"ciphertext"`
	RemoteRevision int64  `json:"remote_revision"`
}

// VaultPutRequest submits a re-encrypted vault under optimistic concurrency:
// the write is accepted only if ExpectedRemoteRevision still matches the
// server's current revision.
type VaultPutRequest struct {
	Ciphertext             string `json:"ciphertext"`
	ExpectedRemoteRevision int64  `json:"expected_remote_revision"`
}

// VaultPutResponse carries the revision assigned to the accepted write.
type VaultPutResponse struct {
	NewRemoteRevision int64 `json:"new_remote_revision"`
}
