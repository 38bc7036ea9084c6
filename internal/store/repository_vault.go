package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/models"
)

// vaultRepository is the PostgreSQL-backed implementation of
// [VaultRepository]. The blob is opaque to the database: one ciphertext
// column and one revision column per account.
type vaultRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVaultRepository constructs a [VaultRepository] backed by the provided
// database connection.
func NewVaultRepository(db *DB, logger *logger.Logger) VaultRepository {
	logger.Debug().Msg("creating vault repository")
	return &vaultRepository{
		db:     db,
		logger: logger,
	}
}

// GetVault implements [VaultRepository].
func (r *vaultRepository) GetVault(ctx context.Context, userID int64) (models.VaultBlob, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select("ciphertext", "revision").
		From("vaults").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return models.VaultBlob{}, fmt.Errorf("build get vault query: %w", err)
	}

	var blob models.VaultBlob
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&blob.Ciphertext, &blob.Revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Account rows are created with their vault, so this only
			// happens for accounts predating that invariant.
			return models.VaultBlob{}, nil
		}
		log.Err(err).Str("func", "*vaultRepository.GetVault").Msg("error scanning vault")
		return models.VaultBlob{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return blob, nil
}

// ReplaceVault implements [VaultRepository]. The compare-and-set runs as a
// single UPDATE guarded on the current revision, so concurrent pushes from
// different devices serialize inside the database: exactly one wins, the
// rest observe ErrVersionConflict.
func (r *vaultRepository) ReplaceVault(ctx context.Context, userID int64, ciphertext string, expectedRevision int64) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Update("vaults").
		Set("ciphertext", ciphertext).
		Set("revision", sq.Expr("revision + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID, "revision": expectedRevision}).
		Suffix("RETURNING revision").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build replace vault query: %w", err)
	}

	var newRevision int64
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&newRevision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row matched (user_id, expectedRevision): someone else
			// advanced the revision since the client's last pull.
			return 0, ErrVersionConflict
		}
		log.Err(err).Str("func", "*vaultRepository.ReplaceVault").Msg("error replacing vault")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return newRevision, nil
}
