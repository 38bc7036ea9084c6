package crypto

import "github.com/zpasskit/zpass/models"

// Keychain owns all client-side key material handling in the zero-knowledge
// scheme. It knows nothing about the network, storage, or users; its only
// job is deriving and domain-separating keys.
//
// Flow:
//
//	salt  = GenerateSalt()                      (registration, once)
//	key   = DeriveKey(masterSecret, salt)       (every unlock)
//	cred  = AuthCredential(key)                 (login, sent to server)
type Keychain interface {
	// GenerateSalt produces a random per-account salt (32 bytes).
	// The salt is not a secret — it is stored on the server in the open
	// and retrievable before authentication. It only ensures identical
	// master secrets derive different keys.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives the 256-bit vault encryption key from the master
	// secret and salt using PBKDF2-SHA256 with KeyIterations rounds.
	// Deterministic and pure: identical inputs always produce identical
	// key bytes. The key exists only in client memory and is never
	// transmitted or persisted. Returns ErrInvalidSalt if the salt length
	// is wrong; any secret content is valid.
	DeriveKey(masterSecret string, salt []byte) ([]byte, error)

	// AuthCredential computes the server login credential from the vault
	// key: hex(SHA-256(key ‖ authDomain)). The domain constant separates
	// this value from the key itself, so the server-side credential store
	// never yields the encryption key.
	AuthCredential(key []byte) string
}

// Codec converts between plaintext vault snapshots and authenticated-
// encrypted blobs. A wrong key is detected only here, as an
// ErrAuthenticationFailed from Decrypt — there is no separate master-secret
// check anywhere in the system.
type Codec interface {
	// Encrypt serializes the snapshot into a versioned envelope and seals
	// it with AES-256-GCM under key. A fresh random nonce is drawn from the
	// OS CSPRNG immediately before sealing on every call.
	Encrypt(snapshot models.VaultSnapshot, key []byte) (string, error)

	// Decrypt opens a blob produced by Encrypt. It returns
	// ErrAuthenticationFailed on tag mismatch (wrong key or tampered
	// ciphertext) and ErrUnsupportedVersion on an unknown envelope version.
	// An empty ciphertext decrypts to an empty snapshot.
	Decrypt(ciphertext string, key []byte) (models.VaultSnapshot, error)
}
