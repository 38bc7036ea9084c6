// Package store provides persistence: the server-side PostgreSQL
// repositories for accounts and vault blobs, in-memory equivalents for
// tests, and the client-side SQLite cache that keeps the last pulled
// ciphertext available offline.
package store

import (
	"context"

	"github.com/zpasskit/zpass/models"
)

// UserRepository persists account records. The server stores only the
// HMAC-hashed login credential and the public account salt — never anything
// the vault key could be recovered from.
type UserRepository interface {
	// CreateUser persists a new account and returns it with the
	// server-assigned UserID and CreatedAt.
	// Returns ErrLoginAlreadyExists when the login is taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByLogin fetches the account record for a login.
	// Returns ErrNoUserWasFound when it does not exist.
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// VaultRepository persists one encrypted vault blob per account, guarded by
// a monotonic revision counter.
type VaultRepository interface {
	// GetVault returns the account's current blob and revision. A fresh
	// account that has never pushed gets an empty blob at revision 0.
	GetVault(ctx context.Context, userID int64) (models.VaultBlob, error)

	// ReplaceVault atomically replaces the blob if and only if the stored
	// revision still equals expectedRevision, then assigns and returns the
	// next revision. Returns ErrVersionConflict on mismatch; revisions
	// only ever increase, contiguously.
	ReplaceVault(ctx context.Context, userID int64, ciphertext string, expectedRevision int64) (int64, error)
}

// Repositories aggregates the server-side repositories.
type Repositories struct {
	Users  UserRepository
	Vaults VaultRepository
}
