// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // database/sql driver "sqlite3"

	"github.com/zpasskit/zpass/internal/logger"
)

// CachedVault is the locally persisted state of one account: the last known
// encrypted blob, the server revision it corresponds to, and the account
// salt needed to re-derive the key after a restart. Everything in here is
// safe to keep on disk; the ciphertext is opaque without the master secret.
type CachedVault struct {
	Login      string
	Ciphertext string
	Revision   int64
	Salt       []byte
}

// VaultCache persists encrypted vault blobs on the client so the vault can
// be opened offline and survives lock, logout and process restarts.
type VaultCache interface {
	// Save stores or replaces the cached state for cached.Login.
	Save(ctx context.Context, cached CachedVault) error

	// Load returns the cached state for login, or ErrNoCachedVault when the
	// account has never been cached on this device.
	Load(ctx context.Context, login string) (CachedVault, error)

	// Delete removes the cached state for login. Deleting an absent entry
	// is not an error.
	Delete(ctx context.Context, login string) error

	// Close releases the underlying database handle.
	Close() error
}

type sqliteVaultCache struct {
	logger *logger.Logger
	db     *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS vault_cache (
    login      TEXT PRIMARY KEY,
    ciphertext TEXT NOT NULL,
    revision   INTEGER NOT NULL,
    salt       BLOB NOT NULL
);`

// NewSQLiteVaultCache opens (creating if needed) the cache database at path.
// Pass ":memory:" for an ephemeral cache in tests.
func NewSQLiteVaultCache(ctx context.Context, path string, log *logger.Logger) (VaultCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open vault cache: %w", err)
	}
	// go-sqlite3 connections do not share in-memory databases; a single
	// connection also sidesteps SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init vault cache schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("vault cache opened")
	return &sqliteVaultCache{db: db, logger: log}, nil
}

func (c *sqliteVaultCache) Save(ctx context.Context, cached CachedVault) error {
	query := `INSERT INTO vault_cache (login, ciphertext, revision, salt)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT(login) DO UPDATE SET
	              ciphertext = excluded.ciphertext,
	              revision   = excluded.revision,
	              salt       = excluded.salt`

	if _, err := c.db.ExecContext(ctx, query, cached.Login, cached.Ciphertext, cached.Revision, cached.Salt); err != nil {
		c.logger.Err(err).Str("func", "*sqliteVaultCache.Save").Msg("error saving cached vault")
		return fmt.Errorf("save cached vault: %w", err)
	}
	return nil
}

func (c *sqliteVaultCache) Load(ctx context.Context, login string) (CachedVault, error) {
	cached := CachedVault{Login: login}

	row := c.db.QueryRowContext(ctx,
		`SELECT ciphertext, revision, salt FROM vault_cache WHERE login = ?`, login)
	if err := row.Scan(&cached.Ciphertext, &cached.Revision, &cached.Salt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CachedVault{}, ErrNoCachedVault
		}
		c.logger.Err(err).Str("func", "*sqliteVaultCache.Load").Msg("error loading cached vault")
		return CachedVault{}, fmt.Errorf("load cached vault: %w", err)
	}

	return cached, nil
}

func (c *sqliteVaultCache) Delete(ctx context.Context, login string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM vault_cache WHERE login = ?`, login); err != nil {
		return fmt.Errorf("delete cached vault: %w", err)
	}
	return nil
}

func (c *sqliteVaultCache) Close() error {
	return c.db.Close()
}
