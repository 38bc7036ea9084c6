package service

import (
	"context"
	"time"
)

// SessionManager owns the authentication token lifecycle. The credential it
// sends to the server is derived from the vault key through a one-way
// domain-separated hash, so the token lifecycle is entirely independent of
// the encryption key: an expired session never requires re-deriving the key
// and a stolen server credential store never yields it.
type SessionManager interface {
	// Register creates a new account: generates the per-account salt,
	// derives the vault key, computes the login credential from it, and
	// registers both salt and credential with the server. The master
	// secret itself never leaves the process.
	Register(ctx context.Context, login, masterSecret string) error

	// Login fetches the account salt, derives the vault key, authenticates
	// with the derived credential, and returns the key to the caller.
	// Returns ErrWrongCredentials when the server rejects the credential.
	Login(ctx context.Context, login, masterSecret string) ([]byte, error)

	// Refresh obtains a fresh session token using the retained derived
	// credential. Tokens are re-obtained, never extended.
	Refresh(ctx context.Context) error

	// EnsureValid refreshes the token if it is absent or about to expire.
	// Sync calls it before every network operation so a mid-sync expiry
	// cannot masquerade as a network failure.
	EnsureValid(ctx context.Context) error

	// Valid reports whether the held token exists and is not within the
	// refresh skew of its expiry.
	Valid() bool

	// AccountLogin returns the login of the authenticated account, empty
	// when logged out.
	AccountLogin() string

	// AccountSalt returns the salt of the authenticated account. The salt
	// is public; holding it here saves a server round trip on relock.
	AccountSalt() []byte

	// Logout drops the token and the retained credential.
	Logout()
}

// SyncState is the engine's observable position in the sync cycle.
type SyncState int32

const (
	StateIdle SyncState = iota
	StatePulling
	StateMerging
	StatePushing
	StateFailed
)

func (s SyncState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePulling:
		return "pulling"
	case StateMerging:
		return "merging"
	case StatePushing:
		return "pushing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SyncEngine reconciles the local credential store with the server's vault
// blob through pull → merge → push cycles under optimistic concurrency.
type SyncEngine interface {
	// Sync runs one full cycle. At most one cycle runs at a time; a call
	// arriving while a cycle is in flight queues exactly one follow-up
	// cycle and returns nil immediately (coalescing). Cancelling ctx while
	// pulling or pushing leaves the store, the merge ancestor, and the key
	// exactly as they were.
	//
	// Error contract: crypto.ErrAuthenticationFailed surfaces untouched
	// (wrong master secret — never retried), ErrSyncUnavailable after the
	// network retry budget, ErrSyncFailed after the revision-conflict
	// retry budget, ErrSessionExpired when re-authentication fails.
	Sync(ctx context.Context) error

	// State returns the engine's current position in the cycle.
	State() SyncState

	// SetEncryptionKey installs (or, with nil, discards) the vault key
	// used to decrypt pulled blobs and encrypt pushes.
	SetEncryptionKey(key []byte)

	// RemoteRevision returns the last server revision this client has
	// fully absorbed, 0 before the first successful sync.
	RemoteRevision() int64
}

// AutoLocker discards the derived key and the plaintext store after a
// period of inactivity, on explicit request, or on application suspend.
// Locking never loses unsynced edits: the current state is sealed into the
// local ciphertext cache first and restored on unlock.
type AutoLocker interface {
	// Arm adopts the key material of a freshly unlocked session and starts
	// the inactivity watcher. A non-positive timeout disables auto-locking
	// (explicit Lock still works).
	Arm(ctx context.Context, login string, key, salt []byte, timeout time.Duration)

	// Touch resets the inactivity timer. The UI calls it on user activity.
	Touch()

	// Lock seals the store into the cache, zeroes the key bytes, clears
	// the plaintext store, and detaches the key from the sync engine.
	Lock() error

	// Unlock re-derives the key from the master secret (deterministic, so
	// unsynced edits sealed at lock time decrypt back intact), restores
	// the store from the cache, and re-arms the watcher. A wrong secret
	// surfaces as crypto.ErrAuthenticationFailed.
	Unlock(ctx context.Context, masterSecret string) error

	// Locked reports whether the session is currently locked.
	Locked() bool

	// Stop halts the inactivity watcher goroutine and blocks until it has
	// exited. Safe to call when not running.
	Stop()
}
