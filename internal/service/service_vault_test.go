package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/store"
)

func TestVaultService(t *testing.T) {
	ctx := context.Background()
	repos := store.NewMemoryRepositories()
	vaults := NewVaultService(repos.Vaults, logger.Nop())

	t.Run("fresh account reads empty blob at revision 0", func(t *testing.T) {
		blob, err := vaults.GetVault(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, blob.Ciphertext)
		assert.Zero(t, blob.Revision)
	})

	t.Run("push against matching revision advances it", func(t *testing.T) {
		rev, err := vaults.ReplaceVault(ctx, 1, "blob-v1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rev)

		blob, err := vaults.GetVault(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "blob-v1", blob.Ciphertext)
		assert.Equal(t, int64(1), blob.Revision)
	})

	t.Run("stale push surfaces the conflict sentinel", func(t *testing.T) {
		_, err := vaults.ReplaceVault(ctx, 1, "stale-blob", 0)
		assert.ErrorIs(t, err, store.ErrVersionConflict)
	})

	t.Run("negative expected revision rejected", func(t *testing.T) {
		_, err := vaults.ReplaceVault(ctx, 1, "blob", -1)
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
	})
}
