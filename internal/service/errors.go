package service

import "errors"

var (
	// ErrWrongCredentials means the server rejected the login credential.
	ErrWrongCredentials = errors.New("wrong login or master password")

	// ErrSessionExpired means the session token is no longer accepted and
	// could not be refreshed.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotLoggedIn is returned when an operation requires an
	// authenticated session and none exists.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrVaultLocked is returned when the vault key has been discarded and
	// the operation needs an unlocked session.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrSyncUnavailable means the network retry budget is exhausted. The
	// local store stays fully usable; edits are folded into the next
	// successful cycle.
	ErrSyncUnavailable = errors.New("sync unavailable: network retries exhausted")

	// ErrSyncFailed means repeated revision conflicts prevented the push
	// from landing within the bounded retry count.
	ErrSyncFailed = errors.New("sync failed: could not reconcile with server")

	// ErrInvalidDataProvided marks a request that fails basic validation.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrTokenIsExpiredOrInvalid normalizes every JWT validation failure so
	// callers need not inspect low-level parsing errors.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrTokenCreationFailed wraps JWT signing failures.
	ErrTokenCreationFailed = errors.New("token creation failed")
)
