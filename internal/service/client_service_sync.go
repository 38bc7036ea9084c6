// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/zpasskit/zpass/internal/adapter"
	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/internal/vault"
	"github.com/zpasskit/zpass/models"
)

const (
	// maxConflictRetries bounds how many times one cycle re-pulls and
	// re-merges after the push lost an optimistic-concurrency race.
	maxConflictRetries = 3

	// networkRetries and backoffBase shape the exponential backoff applied
	// to transient network failures on pull and push.
	networkRetries = 4
	backoffBase    = 500 * time.Millisecond
)

type syncEngine struct {
	adapter adapter.ServerAdapter
	codec   crypto.Codec
	session SessionManager
	store   *vault.Store
	cache   store.VaultCache
	logger  *logger.Logger

	state atomic.Int32

	// retryBase seeds the exponential backoff. Shortened in tests.
	retryBase time.Duration

	mu  sync.Mutex
	key []byte
	// base is the merge ancestor: the snapshot both this client and the
	// server agreed on after the last successful cycle.
	base           models.VaultSnapshot
	remoteRevision int64
	syncing        bool
	pending        bool
}

// NewSyncEngine constructs the client-side [SyncEngine]. The cache may be
// nil in tests; when present it receives the pushed ciphertext after every
// successful cycle so the account stays usable offline.
func NewSyncEngine(
	srv adapter.ServerAdapter,
	codec crypto.Codec,
	session SessionManager,
	credStore *vault.Store,
	cache store.VaultCache,
	logger *logger.Logger,
) SyncEngine {
	logger.Debug().Msg("creating sync engine")
	return &syncEngine{
		adapter:   srv,
		codec:     codec,
		session:   session,
		store:     credStore,
		cache:     cache,
		logger:    logger,
		retryBase: backoffBase,
		base:      models.NewVaultSnapshot(),
	}
}

// SetEncryptionKey implements [SyncEngine].
func (e *syncEngine) SetEncryptionKey(key []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	zero(e.key)
	if key == nil {
		e.key = nil
		// The merge ancestor is plaintext; it must not outlive the key.
		e.base = models.NewVaultSnapshot()
		return
	}
	e.key = make([]byte, len(key))
	copy(e.key, key)
}

// RemoteRevision implements [SyncEngine].
func (e *syncEngine) RemoteRevision() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remoteRevision
}

// State implements [SyncEngine].
func (e *syncEngine) State() SyncState {
	return SyncState(e.state.Load())
}

func (e *syncEngine) setState(s SyncState) {
	e.state.Store(int32(s))
}

// Sync implements [SyncEngine]. The coalescing contract: the first caller
// runs cycles, any caller arriving meanwhile just flips pending and leaves.
// Pending requests collapse into exactly one follow-up cycle.
func (e *syncEngine) Sync(ctx context.Context) error {
	e.mu.Lock()
	if e.syncing {
		e.pending = true
		e.mu.Unlock()
		return nil
	}
	e.syncing = true
	e.mu.Unlock()

	for {
		err := e.runCycle(ctx)

		e.mu.Lock()
		again := e.pending && err == nil && ctx.Err() == nil
		e.pending = false
		if !again {
			e.syncing = false
			e.mu.Unlock()
			return err
		}
		e.mu.Unlock()
	}
}

// runCycle executes one pull → decrypt → merge → encrypt → push pass. All
// shared state mutation happens in commit, after the push has landed, so a
// failure or cancellation anywhere leaves the store, the merge ancestor, and
// the key untouched.
func (e *syncEngine) runCycle(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			e.setState(StateFailed)
		} else {
			e.setState(StateIdle)
		}
	}()

	e.mu.Lock()
	if e.key == nil {
		e.mu.Unlock()
		return ErrVaultLocked
	}
	key := make([]byte, len(e.key))
	copy(key, e.key)
	base := e.base.Clone()
	e.mu.Unlock()
	defer zero(key)

	if err = e.session.EnsureValid(ctx); err != nil {
		e.logger.Err(err).Msg("session validation failed before sync")
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotLoggedIn) {
			return ErrSessionExpired
		}
		return fmt.Errorf("%w: %w", ErrSyncUnavailable, err)
	}

	// localAtStart freezes the state this cycle reconciles. The live store
	// stays editable; anything changed after this point is folded in at
	// commit and shipped by the next cycle.
	localAtStart := e.store.Snapshot()

	e.setState(StatePulling)
	pulled, err := e.pullWithRetry(ctx)
	if err != nil {
		return err
	}

	e.setState(StateMerging)
	remote, err := e.codec.Decrypt(pulled.Ciphertext, key)
	if err != nil {
		// Wrong master secret or tampered blob. Never retried, never
		// wrapped: the caller must be able to tell this from network noise.
		return err
	}

	merged := vault.Merge(base, localAtStart, remote)
	expected := pulled.RemoteRevision

	// Pushing an identical vault would only bump the revision and force every
	// other device to re-pull. An unchanged merge result is committed against
	// the revision just pulled instead.
	if vault.SnapshotsEqual(merged, remote) {
		if err = e.commit(ctx, localAtStart, merged, pulled.Ciphertext, pulled.RemoteRevision); err != nil {
			return err
		}
		e.logger.Debug().
			Int64("remote_revision", pulled.RemoteRevision).
			Msg("vault unchanged, push skipped")
		return nil
	}

	var blob string
	var newRevision int64
	for attempt := 0; ; attempt++ {
		if blob, err = e.codec.Encrypt(merged, key); err != nil {
			return fmt.Errorf("encrypt merged vault: %w", err)
		}

		e.setState(StatePushing)
		resp, pushErr := e.pushWithRetry(ctx, blob, expected)
		if pushErr == nil {
			newRevision = resp.NewRemoteRevision
			break
		}
		if !errors.Is(pushErr, adapter.ErrRevisionConflict) {
			return pushErr
		}
		if attempt+1 >= maxConflictRetries {
			e.logger.Warn().Int("attempts", attempt+1).Msg("push conflict retries exhausted")
			return ErrSyncFailed
		}

		// Someone else pushed first: absorb their state and try again.
		e.setState(StatePulling)
		if pulled, err = e.pullWithRetry(ctx); err != nil {
			return err
		}
		e.setState(StateMerging)
		if remote, err = e.codec.Decrypt(pulled.Ciphertext, key); err != nil {
			return err
		}
		merged = vault.Merge(base, merged, remote)
		expected = pulled.RemoteRevision
	}

	if err = e.commit(ctx, localAtStart, merged, blob, newRevision); err != nil {
		return err
	}

	e.logger.Info().
		Int64("remote_revision", newRevision).
		Msg("sync cycle completed")
	return nil
}

// commit publishes a successful cycle: edits made while the cycle ran are
// folded in (merged state acts as the remote side, the push ancestor as
// base), tombstones are credited a cycle, the GC horizon applied, and the
// offline cache refreshed with exactly what the server now holds.
//
// The whole publication runs under e.mu so it serializes with
// SetEncryptionKey: a lock that lands first makes the cycle drop its result,
// a lock that lands after sees the loaded store and clears it itself.
func (e *syncEngine) commit(ctx context.Context, pushedBase, merged models.VaultSnapshot, blob string, revision int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// The key may have been discarded while this cycle was in flight. The
	// merge result must never reach the store of a locked vault; the cycle is
	// dropped whole and the next unlocked cycle re-pulls the server state.
	if e.key == nil {
		e.logger.Info().Msg("vault locked mid-cycle, sync result dropped")
		return ErrVaultLocked
	}

	live := e.store.Snapshot()
	final := vault.Merge(pushedBase, live, merged)

	// Merge ignores SyncCycles, so a content-equal remote copy can win with a
	// lower counter. The GC counter is per-device bookkeeping and must only
	// ever grow; keep the local maximum.
	for id, entry := range final.Entries {
		if liveEntry, ok := live.Entries[id]; ok && entry.Deleted && liveEntry.SyncCycles > entry.SyncCycles {
			entry.SyncCycles = liveEntry.SyncCycles
			final.Entries[id] = entry
		}
	}

	e.store.Load(final)
	e.store.MarkSynced()
	if removed := e.store.CollectGarbage(); removed > 0 {
		e.logger.Debug().Int("removed", removed).Msg("tombstones collected")
	}

	e.base = merged
	e.remoteRevision = revision

	if e.cache != nil {
		cached := store.CachedVault{
			Login:      e.session.AccountLogin(),
			Ciphertext: blob,
			Revision:   revision,
			Salt:       e.session.AccountSalt(),
		}
		if err := e.cache.Save(ctx, cached); err != nil {
			// Cache misses only cost offline availability, never correctness.
			e.logger.Err(err).Msg("error refreshing vault cache")
		}
	}

	return nil
}

func (e *syncEngine) pullWithRetry(ctx context.Context) (models.VaultGetResponse, error) {
	var out models.VaultGetResponse

	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		resp, err := e.adapter.PullVault(ctx)
		if err != nil {
			return classifyNetworkError(err)
		}
		out = resp
		return nil
	})

	return out, e.mapTransportError(ctx, err)
}

func (e *syncEngine) pushWithRetry(ctx context.Context, blob string, expected int64) (models.VaultPutResponse, error) {
	var out models.VaultPutResponse

	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		resp, err := e.adapter.PushVault(ctx, models.VaultPutRequest{
			Ciphertext:             blob,
			ExpectedRemoteRevision: expected,
		})
		if err != nil {
			return classifyNetworkError(err)
		}
		out = resp
		return nil
	})

	if errors.Is(err, adapter.ErrRevisionConflict) {
		return out, err
	}
	return out, e.mapTransportError(ctx, err)
}

func (e *syncEngine) backoff() retry.Backoff {
	return retry.WithMaxRetries(networkRetries, retry.NewExponential(e.retryBase))
}

// classifyNetworkError decides what the retry loop may retry: transient
// transport failures only. Protocol-level answers (auth rejection, revision
// conflict) are final for this attempt and handled a level up.
func classifyNetworkError(err error) error {
	if errors.Is(err, adapter.ErrUnauthorized) ||
		errors.Is(err, adapter.ErrRevisionConflict) ||
		errors.Is(err, adapter.ErrAccountNotFound) {
		return err
	}
	return retry.RetryableError(err)
}

// mapTransportError translates the outcome of an exhausted retry loop into
// the engine's error contract.
func (e *syncEngine) mapTransportError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, adapter.ErrUnauthorized):
		return ErrSessionExpired
	default:
		e.logger.Err(err).Msg("network retries exhausted")
		return fmt.Errorf("%w: %w", ErrSyncUnavailable, err)
	}
}
