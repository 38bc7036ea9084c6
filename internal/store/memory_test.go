package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpasskit/zpass/models"
)

func TestMemoryRepositories_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	created, err := repos.Users.CreateUser(ctx, models.User{
		Login:          "alice",
		AuthCredential: "deadbeef",
		EncryptionSalt: []byte("salt"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.UserID)
	assert.Empty(t, created.AuthCredential)

	_, err = repos.Users.CreateUser(ctx, models.User{Login: "alice"})
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)

	found, err := repos.Users.FindUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, found.UserID)
	assert.Equal(t, "deadbeef", found.AuthCredential)

	_, err = repos.Users.FindUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestMemoryRepositories_VaultCAS(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	blob, err := repos.Vaults.GetVault(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.VaultBlob{}, blob, "fresh account starts empty at revision 0")

	rev, err := repos.Vaults.ReplaceVault(ctx, 1, "blob-v1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	_, err = repos.Vaults.ReplaceVault(ctx, 1, "racing-blob", 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	blob, err = repos.Vaults.GetVault(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.VaultBlob{Ciphertext: "blob-v1", Revision: 1}, blob)
}
