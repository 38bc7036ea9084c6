// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/zpasskit/zpass/internal/adapter"
	"github.com/zpasskit/zpass/internal/config"
	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/generator"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/service"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/internal/vault"
	"github.com/zpasskit/zpass/internal/workers"
	"github.com/zpasskit/zpass/models"
)

// App is the client runtime: it owns the unlocked credential store, the
// session, synchronization, and autolock, and exposes them as one surface
// for a frontend to drive. Everything user-facing (forms, rendering, input)
// lives outside this module and calls in here.
type App struct {
	cfg    *config.ClientConfig
	logger *logger.Logger

	srv   adapter.ServerAdapter
	cache store.VaultCache
	store *vault.Store

	session service.SessionManager
	engine  service.SyncEngine
	locker  service.AutoLocker

	jobs *workers.Workers
}

// NewApp wires the client object graph from the resolved configuration.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	srv := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.ServerURL,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	cache, err := store.NewSQLiteVaultCache(ctx, cfg.Storage.CachePath, log)
	if err != nil {
		return nil, fmt.Errorf("open vault cache: %w", err)
	}

	keychain := crypto.NewKeychain()
	codec := crypto.NewCodec()
	credStore := vault.NewStore()

	session := service.NewSessionManager(srv, keychain, log)
	engine := service.NewSyncEngine(srv, codec, session, credStore, cache, log)
	locker := service.NewAutoLocker(credStore, codec, keychain, cache, engine, log)

	app := &App{
		cfg:     cfg,
		logger:  log,
		srv:     srv,
		cache:   cache,
		store:   credStore,
		session: session,
		engine:  engine,
		locker:  locker,
		jobs:    workers.New(workers.NewSyncJob(engine, cfg.Sync.Interval, log)),
	}
	return app, nil
}

// Run starts the background jobs and blocks until ctx is cancelled, then
// tears the runtime down: watcher stopped, vault locked, cache closed.
func (a *App) Run(ctx context.Context) error {
	a.jobs.Run(ctx)
	<-ctx.Done()

	a.jobs.Wait()
	a.locker.Stop()
	if a.session.AccountLogin() != "" && !a.locker.Locked() {
		if err := a.locker.Lock(); err != nil {
			a.logger.Err(err).Msg("error locking vault on shutdown")
		}
	}
	return a.cache.Close()
}

// Register creates a new account on the server.
func (a *App) Register(ctx context.Context, login, masterSecret string) error {
	return a.session.Register(ctx, login, masterSecret)
}

// Login authenticates, unlocks the vault, and arms the autolocker. The
// first sync is attempted immediately but best-effort: an unreachable
// server leaves the session usable offline.
func (a *App) Login(ctx context.Context, login, masterSecret string) error {
	key, err := a.session.Login(ctx, login, masterSecret)
	if err != nil {
		return err
	}

	a.locker.Arm(ctx, login, key, a.session.AccountSalt(), a.cfg.Sync.AutolockTimeout)
	for i := range key {
		key[i] = 0
	}

	if err = a.engine.Sync(ctx); err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return err
		}
		a.logger.Warn().Err(err).Msg("initial sync failed, continuing offline")
	}
	return nil
}

// Logout locks the vault and drops the session.
func (a *App) Logout() error {
	a.locker.Stop()
	if !a.locker.Locked() && a.session.AccountLogin() != "" {
		if err := a.locker.Lock(); err != nil {
			return err
		}
	}
	a.session.Logout()
	return nil
}

// Lock seals the vault and discards the key.
func (a *App) Lock() error { return a.locker.Lock() }

// Unlock restores the vault with the re-derived key. A wrong master secret
// surfaces as crypto.ErrAuthenticationFailed.
func (a *App) Unlock(ctx context.Context, masterSecret string) error {
	return a.locker.Unlock(ctx, masterSecret)
}

// Locked reports whether the vault is currently locked.
func (a *App) Locked() bool { return a.locker.Locked() }

// Touch resets the inactivity clock. Frontends call it on user input.
func (a *App) Touch() { a.locker.Touch() }

// Sync runs one synchronization cycle now, in addition to the background
// schedule.
func (a *App) Sync(ctx context.Context) error {
	a.locker.Touch()
	return a.engine.Sync(ctx)
}

// SyncState reports the engine's position in the sync cycle.
func (a *App) SyncState() service.SyncState { return a.engine.State() }

// RemoteRevision reports the last fully absorbed server revision.
func (a *App) RemoteRevision() int64 { return a.engine.RemoteRevision() }

// Entries lists the live credential entries.
func (a *App) Entries() ([]models.Entry, error) {
	if a.locker.Locked() {
		return nil, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.Entries(false), nil
}

// Entry returns one live entry by id.
func (a *App) Entry(id string) (models.Entry, error) {
	if a.locker.Locked() {
		return models.Entry{}, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.Entry(id)
}

// CreateEntry adds a credential entry.
func (a *App) CreateEntry(e models.Entry) (models.Entry, error) {
	if a.locker.Locked() {
		return models.Entry{}, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.CreateEntry(e)
}

// UpdateEntry replaces an entry wholesale.
func (a *App) UpdateEntry(e models.Entry) (models.Entry, error) {
	if a.locker.Locked() {
		return models.Entry{}, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.UpdateEntry(e)
}

// DeleteEntry tombstones an entry; the deletion propagates on the next sync.
func (a *App) DeleteEntry(id string) error {
	if a.locker.Locked() {
		return service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.DeleteEntry(id)
}

// Categories lists the categories.
func (a *App) Categories() ([]models.Category, error) {
	if a.locker.Locked() {
		return nil, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.Categories(), nil
}

// CreateCategory adds a named category.
func (a *App) CreateCategory(name string) (models.Category, error) {
	if a.locker.Locked() {
		return models.Category{}, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.CreateCategory(name)
}

// RenameCategory changes a category's display name.
func (a *App) RenameCategory(id, name string) (models.Category, error) {
	if a.locker.Locked() {
		return models.Category{}, service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.RenameCategory(id, name)
}

// DeleteCategory removes a category; entries referencing it become
// uncategorized.
func (a *App) DeleteCategory(id string) error {
	if a.locker.Locked() {
		return service.ErrVaultLocked
	}
	a.locker.Touch()
	return a.store.DeleteCategory(id)
}

// GeneratePassword draws a random password from the selected alphabets.
func (a *App) GeneratePassword(length int, opts generator.Options) (string, error) {
	return generator.Generate(length, opts)
}

// PasswordStrength scores a password for the frontend's strength meter.
func (a *App) PasswordStrength(password string) generator.Strength {
	return generator.Score(password)
}
