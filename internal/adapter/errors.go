package adapter

import "errors"

var (
	// ErrUnauthorized covers a wrong login credential and an expired or
	// invalid session token.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrRevisionConflict means the optimistic-concurrency check failed:
	// another device pushed a newer vault since our last pull. Recoverable
	// by re-pulling and re-merging.
	ErrRevisionConflict = errors.New("vault revision conflict")

	// ErrLoginAlreadyExists is returned by Register for a taken login.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrAccountNotFound is returned when the requested login is unknown.
	ErrAccountNotFound = errors.New("account not found")
)
