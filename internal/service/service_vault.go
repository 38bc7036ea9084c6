package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/models"
)

type vaultService struct {
	vaults store.VaultRepository
	logger *logger.Logger
}

// NewVaultService constructs the server-side [VaultService]. The service
// treats the blob as opaque text; all vault semantics live client-side.
func NewVaultService(vaults store.VaultRepository, logger *logger.Logger) VaultService {
	logger.Debug().Msg("creating vault service")
	return &vaultService{
		vaults: vaults,
		logger: logger,
	}
}

// GetVault implements [VaultService].
func (s *vaultService) GetVault(ctx context.Context, userID int64) (models.VaultBlob, error) {
	blob, err := s.vaults.GetVault(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.GetVault").Msg("error getting vault")
		return models.VaultBlob{}, fmt.Errorf("error getting vault: %w", err)
	}

	return blob, nil
}

// ReplaceVault implements [VaultService].
func (s *vaultService) ReplaceVault(ctx context.Context, userID int64, ciphertext string, expectedRevision int64) (int64, error) {
	log := logger.FromContext(ctx)

	if expectedRevision < 0 {
		return 0, ErrInvalidDataProvided
	}

	newRevision, err := s.vaults.ReplaceVault(ctx, userID, ciphertext, expectedRevision)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			log.Info().
				Int64("user_id", userID).
				Int64("expected_revision", expectedRevision).
				Msg("vault push rejected: stale revision")
			return 0, err
		}
		log.Err(err).Str("func", "*vaultService.ReplaceVault").Msg("error replacing vault")
		return 0, fmt.Errorf("error replacing vault: %w", err)
	}

	log.Debug().
		Int64("user_id", userID).
		Int64("new_revision", newRevision).
		Msg("vault replaced")
	return newRevision, nil
}
