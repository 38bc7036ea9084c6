package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpasskit/zpass/internal/config"
	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/generator"
	handler "github.com/zpasskit/zpass/internal/handler/http"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/service"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/models"
)

// newBackend spins up a full in-process server: real handlers and services
// over in-memory repositories.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	repos := store.NewMemoryRepositories()
	services := &service.Services{
		Auth: service.NewAuthService(service.AuthConfig{
			CredentialHashKey: "e2e-pepper",
			TokenSignKey:      "e2e-sign-key",
			TokenIssuer:       "zpass-e2e",
			TokenDuration:     time.Hour,
		}, repos.Users, logger.Nop()),
		Vault: service.NewVaultService(repos.Vaults, logger.Nop()),
	}

	srv := httptest.NewServer(handler.NewHandler(services, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, serverURL string) *App {
	t.Helper()

	cfg := &config.ClientConfig{
		Adapter: config.ClientAdapter{
			ServerURL:      serverURL,
			RequestTimeout: 5 * time.Second,
		},
		Storage: config.ClientStorage{
			CachePath: filepath.Join(t.TempDir(), "vault.db"),
		},
		Sync: config.ClientSync{}, // no background job, no autolock in tests
	}

	app, err := NewApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { app.cache.Close() })
	return app
}

func TestApp_EndToEndTwoSessions(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)

	// First session: register, add an entry, sync.
	first := newTestApp(t, backend.URL)
	require.NoError(t, first.Register(ctx, "alice", "correct horse battery staple"))
	require.NoError(t, first.Login(ctx, "alice", "correct horse battery staple"))

	created, err := first.CreateEntry(models.Entry{Title: "gmail", Username: "alice@example.com", Secret: "hunter2"})
	require.NoError(t, err)
	require.NoError(t, first.Sync(ctx))
	require.NoError(t, first.Logout())

	// Second session on a clean machine: only the login and master secret
	// travel; the vault comes back decrypted from the server.
	second := newTestApp(t, backend.URL)
	require.NoError(t, second.Login(ctx, "alice", "correct horse battery staple"))

	entries, err := second.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)
	assert.Equal(t, "hunter2", entries[0].Secret)
}

func TestApp_WrongMasterSecretNeverDecrypts(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)

	first := newTestApp(t, backend.URL)
	require.NoError(t, first.Register(ctx, "alice", "right secret"))
	require.NoError(t, first.Login(ctx, "alice", "right secret"))
	_, err := first.CreateEntry(models.Entry{Title: "bank", Secret: "pin"})
	require.NoError(t, err)
	require.NoError(t, first.Sync(ctx))

	second := newTestApp(t, backend.URL)
	err = second.Login(ctx, "alice", "wrong secret")
	assert.ErrorIs(t, err, service.ErrWrongCredentials)
	assert.Empty(t, second.srv.Token(), "no session token on failed login")
}

func TestApp_LockUnlockCycle(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)

	app := newTestApp(t, backend.URL)
	require.NoError(t, app.Register(ctx, "alice", "master secret"))
	require.NoError(t, app.Login(ctx, "alice", "master secret"))

	_, err := app.CreateEntry(models.Entry{Title: "unsynced", Secret: "pw"})
	require.NoError(t, err)

	require.NoError(t, app.Lock())
	assert.True(t, app.Locked())

	_, err = app.Entries()
	assert.ErrorIs(t, err, service.ErrVaultLocked)
	_, err = app.CreateEntry(models.Entry{Title: "nope"})
	assert.ErrorIs(t, err, service.ErrVaultLocked)

	err = app.Unlock(ctx, "not the secret")
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
	assert.True(t, app.Locked())

	require.NoError(t, app.Unlock(ctx, "master secret"))
	entries, err := app.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unsynced", entries[0].Title, "edits sealed at lock time survive")
}

func TestApp_DeletePropagatesBetweenSessions(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)

	first := newTestApp(t, backend.URL)
	require.NoError(t, first.Register(ctx, "alice", "secret"))
	require.NoError(t, first.Login(ctx, "alice", "secret"))
	created, err := first.CreateEntry(models.Entry{Title: "doomed", Secret: "pw"})
	require.NoError(t, err)
	require.NoError(t, first.Sync(ctx))

	second := newTestApp(t, backend.URL)
	require.NoError(t, second.Login(ctx, "alice", "secret"))
	require.Len(t, mustEntries(t, second), 1)

	require.NoError(t, first.DeleteEntry(created.ID))
	require.NoError(t, first.Sync(ctx))

	require.NoError(t, second.Sync(ctx))
	assert.Empty(t, mustEntries(t, second), "the tombstone wins over the second session's copy")
}

func TestApp_PasswordGeneration(t *testing.T) {
	backend := newBackend(t)
	app := newTestApp(t, backend.URL)

	pw, err := app.GeneratePassword(20, generator.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, pw, 20)

	strength := app.PasswordStrength(pw)
	assert.GreaterOrEqual(t, strength.Score, 60)
}

func mustEntries(t *testing.T, app *App) []models.Entry {
	t.Helper()
	entries, err := app.Entries()
	require.NoError(t, err)
	return entries
}
