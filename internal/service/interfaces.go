// Package service contains the business logic on both sides of the wire:
// the server's auth and vault services, and the client's session manager,
// sync engine and autolocker.
package service

import (
	"context"

	"github.com/zpasskit/zpass/models"
)

// AuthService implements account registration and session issuance. The
// server never sees the master secret: clients send a derived auth
// credential, which the service re-hashes with a server-side HMAC key
// before storage.
type AuthService interface {
	// RegisterUser creates an account with the supplied login, derived auth
	// credential and public account salt.
	// Returns store.ErrLoginAlreadyExists when the login is taken and
	// ErrInvalidDataProvided on empty or malformed input.
	RegisterUser(ctx context.Context, login, authCredential string, salt []byte) (models.User, error)

	// AccountParams returns the public account salt for a login, so a
	// client can derive its keys before authenticating.
	// Returns store.ErrNoUserWasFound for unknown logins.
	AccountParams(ctx context.Context, login string) ([]byte, error)

	// Login verifies the derived auth credential and issues a session
	// token. Unknown login and wrong credential are indistinguishable:
	// both return ErrWrongCredentials.
	Login(ctx context.Context, login, authCredential string) (models.Token, models.User, error)

	// ValidateToken verifies a bearer token's signature, issuer and expiry
	// and resolves the user it belongs to.
	// Returns ErrTokenIsExpiredOrInvalid on any verification failure.
	ValidateToken(ctx context.Context, tokenString string) (models.Token, error)
}

// VaultService stores and serves opaque encrypted vault blobs guarded by a
// monotonic revision.
type VaultService interface {
	// GetVault returns the caller's current blob and revision (empty blob
	// at revision 0 for an account that never pushed).
	GetVault(ctx context.Context, userID int64) (models.VaultBlob, error)

	// ReplaceVault atomically replaces the blob when expectedRevision still
	// matches, returning the new revision.
	// Returns store.ErrVersionConflict when another device pushed first.
	ReplaceVault(ctx context.Context, userID int64, ciphertext string, expectedRevision int64) (int64, error)
}

// Services aggregates the server-side services consumed by the transport
// layer.
type Services struct {
	Auth  AuthService
	Vault VaultService
}
