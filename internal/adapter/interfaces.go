// Package adapter implements the client's view of the server API. It is the
// only place in the client that talks HTTP; everything above it works with
// typed requests, responses, and sentinel errors.
package adapter

import (
	"context"

	"github.com/zpasskit/zpass/models"
)

// ServerAdapter is the transport boundary between the client services and
// the remote server. Vault contents cross this boundary exclusively as
// ciphertext; the adapter never sees plaintext or key material.
type ServerAdapter interface {
	// Register creates a new account from the client-derived credential and
	// the freshly generated account salt.
	// Returns ErrLoginAlreadyExists if the login is taken.
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)

	// AccountParams fetches the public per-account salt for the login.
	// Served without token validation: the salt is needed before the client
	// can derive a key and authenticate.
	AccountParams(ctx context.Context, login string) (models.ParamsResponse, error)

	// Login exchanges the derived credential for a session token. On
	// success the adapter stores the token for subsequent authed calls.
	// Returns ErrUnauthorized on a wrong credential.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)

	// Verify checks the held session token against the server.
	Verify(ctx context.Context) error

	// PullVault fetches the current vault blob and remote revision.
	PullVault(ctx context.Context) (models.VaultGetResponse, error)

	// PushVault submits a re-encrypted vault under optimistic concurrency.
	// Returns ErrRevisionConflict when the expected revision no longer
	// matches the server's current one.
	PushVault(ctx context.Context, req models.VaultPutRequest) (models.VaultPutResponse, error)

	// SetToken replaces the bearer token used for authenticated requests.
	SetToken(token string)

	// Token returns the currently held bearer token, empty when logged out.
	Token() string
}
