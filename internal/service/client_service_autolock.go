// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/internal/vault"
)

// watchResolution is how often the inactivity watcher samples the activity
// clock. Coarse on purpose: lock latency within a second is irrelevant at
// multi-minute timeouts.
const watchResolution = time.Second

type autoLocker struct {
	store    *vault.Store
	codec    crypto.Codec
	keychain crypto.Keychain
	cache    store.VaultCache
	engine   SyncEngine
	logger   *logger.Logger

	mu           sync.Mutex
	login        string
	key          []byte
	salt         []byte
	timeout      time.Duration
	locked       bool
	lastActivity time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutoLocker constructs the client-side [AutoLocker].
func NewAutoLocker(
	credStore *vault.Store,
	codec crypto.Codec,
	keychain crypto.Keychain,
	cache store.VaultCache,
	engine SyncEngine,
	logger *logger.Logger,
) AutoLocker {
	logger.Debug().Msg("creating autolocker")
	return &autoLocker{
		store:    credStore,
		codec:    codec,
		keychain: keychain,
		cache:    cache,
		engine:   engine,
		logger:   logger,
	}
}

// Arm implements [AutoLocker].
func (a *autoLocker) Arm(ctx context.Context, login string, key, salt []byte, timeout time.Duration) {
	a.Stop()

	a.mu.Lock()
	a.login = login
	a.key = make([]byte, len(key))
	copy(a.key, key)
	a.salt = make([]byte, len(salt))
	copy(a.salt, salt)
	a.timeout = timeout
	a.locked = false
	a.lastActivity = time.Now()
	a.mu.Unlock()

	a.engine.SetEncryptionKey(key)

	if timeout <= 0 {
		a.logger.Debug().Msg("autolock disabled, explicit lock only")
		return
	}

	watchCtx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.watch(watchCtx)
}

// watch samples the activity clock until the context is cancelled, locking
// once the inactivity window has elapsed.
func (a *autoLocker) watch(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(watchResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			expired := !a.locked && time.Since(a.lastActivity) >= a.timeout
			a.mu.Unlock()

			if expired {
				a.logger.Info().Msg("inactivity timeout reached, locking vault")
				if err := a.Lock(); err != nil {
					a.logger.Err(err).Msg("autolock failed")
				}
			}
		}
	}
}

// Touch implements [AutoLocker].
func (a *autoLocker) Touch() {
	a.mu.Lock()
	a.lastActivity = time.Now()
	a.mu.Unlock()
}

// Lock implements [AutoLocker]. The store is sealed into the cache before
// anything is destroyed, so edits that never synced survive the lock.
func (a *autoLocker) Lock() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.locked {
		return nil
	}
	if a.key == nil {
		return ErrNotLoggedIn
	}

	snapshot := a.store.Snapshot()
	blob, err := a.codec.Encrypt(snapshot, a.key)
	if err != nil {
		return fmt.Errorf("seal vault for lock: %w", err)
	}

	if err = a.cache.Save(context.Background(), store.CachedVault{
		Login:      a.login,
		Ciphertext: blob,
		Revision:   a.engine.RemoteRevision(),
		Salt:       a.salt,
	}); err != nil {
		// Refuse to destroy the only plaintext copy if sealing it failed.
		return fmt.Errorf("persist sealed vault: %w", err)
	}

	zero(a.key)
	a.key = nil
	// The engine loses its key before the store is cleared: an in-flight
	// sync cycle then refuses to commit, so nothing can put plaintext back
	// after Clear.
	a.engine.SetEncryptionKey(nil)
	a.store.Clear()
	a.locked = true

	a.logger.Info().Msg("vault locked")
	return nil
}

// Unlock implements [AutoLocker]. Key derivation is deterministic, so the
// re-derived key decrypts whatever was sealed at lock time; a wrong master
// secret fails the AEAD open and surfaces as
// [crypto.ErrAuthenticationFailed].
func (a *autoLocker) Unlock(ctx context.Context, masterSecret string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.locked {
		return nil
	}

	key, err := a.keychain.DeriveKey(masterSecret, a.salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	cached, err := a.cache.Load(ctx, a.login)
	if err != nil {
		zero(key)
		return fmt.Errorf("load sealed vault: %w", err)
	}

	snapshot, err := a.codec.Decrypt(cached.Ciphertext, key)
	if err != nil {
		zero(key)
		return err
	}

	a.store.Load(snapshot)
	a.key = key
	a.engine.SetEncryptionKey(key)
	a.locked = false
	a.lastActivity = time.Now()

	a.logger.Info().Msg("vault unlocked")
	return nil
}

// Locked implements [AutoLocker].
func (a *autoLocker) Locked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locked
}

// Stop implements [AutoLocker].
func (a *autoLocker) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}
