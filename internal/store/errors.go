package store

import "errors"

var (
	// ErrLoginAlreadyExists is returned when creating a user with a login
	// that is already taken.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a lookup matches no account.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrVersionConflict is returned by ReplaceVault when the expected
	// revision no longer matches the stored one.
	ErrVersionConflict = errors.New("vault revision conflict")

	// ErrNoCachedVault is returned by the client cache when no blob has
	// been cached for the account yet.
	ErrNoCachedVault = errors.New("no cached vault for account")
)
