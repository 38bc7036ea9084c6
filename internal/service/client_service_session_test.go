package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/logger"
)

func TestSessionManager_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	srv := newFakeServer()
	session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())

	require.NoError(t, session.Register(ctx, "alice", "correct horse battery staple"))

	t.Run("same master secret logs in and yields a key", func(t *testing.T) {
		key, err := session.Login(ctx, "alice", "correct horse battery staple")
		require.NoError(t, err)
		assert.Len(t, key, crypto.KeyLength)
		assert.NotEmpty(t, srv.Token())
		assert.Equal(t, "alice", session.AccountLogin())
		assert.Len(t, session.AccountSalt(), crypto.SaltLength)
	})

	t.Run("wrong master secret is rejected by the server", func(t *testing.T) {
		_, err := session.Login(ctx, "alice", "wrong secret")
		assert.ErrorIs(t, err, ErrWrongCredentials)
	})

	t.Run("unknown login maps to the same error", func(t *testing.T) {
		_, err := session.Login(ctx, "nobody", "correct horse battery staple")
		assert.ErrorIs(t, err, ErrWrongCredentials)
	})

	t.Run("duplicate registration surfaces adapter sentinel", func(t *testing.T) {
		err := session.Register(ctx, "alice", "anything")
		assert.Error(t, err)
	})
}

func TestSessionManager_LoginIsDeterministicAcrossSessions(t *testing.T) {
	ctx := context.Background()
	srv := newFakeServer()

	first := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())
	require.NoError(t, first.Register(ctx, "alice", "master secret"))
	keyA, err := first.Login(ctx, "alice", "master secret")
	require.NoError(t, err)

	// a second device knows only the login and master secret
	second := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())
	keyB, err := second.Login(ctx, "alice", "master secret")
	require.NoError(t, err)

	assert.Equal(t, keyA, keyB, "both devices must derive the identical vault key")
}

func TestSessionManager_Valid(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh long-lived token is valid", func(t *testing.T) {
		srv := newFakeServer()
		session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())
		require.NoError(t, session.Register(ctx, "alice", "secret"))
		_, err := session.Login(ctx, "alice", "secret")
		require.NoError(t, err)

		assert.True(t, session.Valid())
	})

	t.Run("token within the refresh skew reads as invalid", func(t *testing.T) {
		srv := newFakeServer()
		srv.tokenDuration = refreshSkew / 2
		session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())
		require.NoError(t, session.Register(ctx, "alice", "secret"))
		_, err := session.Login(ctx, "alice", "secret")
		require.NoError(t, err)

		assert.False(t, session.Valid())
	})

	t.Run("no token means invalid", func(t *testing.T) {
		srv := newFakeServer()
		session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())
		assert.False(t, session.Valid())
	})
}

func TestSessionManager_Refresh(t *testing.T) {
	ctx := context.Background()
	srv := newFakeServer()
	session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())

	t.Run("refresh before login is rejected", func(t *testing.T) {
		assert.ErrorIs(t, session.Refresh(ctx), ErrNotLoggedIn)
	})

	require.NoError(t, session.Register(ctx, "alice", "secret"))
	_, err := session.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	t.Run("refresh re-obtains a token with the retained credential", func(t *testing.T) {
		old := srv.Token()
		time.Sleep(1100 * time.Millisecond) // iat/exp have second resolution
		require.NoError(t, session.Refresh(ctx))
		assert.NotEqual(t, old, srv.Token())
	})

	t.Run("refresh after server-side credential loss expires the session", func(t *testing.T) {
		delete(srv.accounts, "alice")
		assert.ErrorIs(t, session.Refresh(ctx), ErrSessionExpired)
	})
}

func TestSessionManager_EnsureValid(t *testing.T) {
	ctx := context.Background()
	srv := newFakeServer()
	srv.tokenDuration = time.Hour
	session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())

	require.NoError(t, session.Register(ctx, "alice", "secret"))
	_, err := session.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	t.Run("valid token is left alone", func(t *testing.T) {
		before := srv.Token()
		require.NoError(t, session.EnsureValid(ctx))
		assert.Equal(t, before, srv.Token())
	})

	t.Run("dropped token is re-obtained", func(t *testing.T) {
		srv.SetToken("")
		require.NoError(t, session.EnsureValid(ctx))
		assert.NotEmpty(t, srv.Token())
	})
}

func TestSessionManager_Logout(t *testing.T) {
	ctx := context.Background()
	srv := newFakeServer()
	session := NewSessionManager(srv, crypto.NewKeychain(), logger.Nop())

	require.NoError(t, session.Register(ctx, "alice", "secret"))
	_, err := session.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	session.Logout()

	assert.Empty(t, srv.Token())
	assert.Empty(t, session.AccountLogin())
	assert.False(t, session.Valid())
	assert.ErrorIs(t, session.Refresh(ctx), ErrNotLoggedIn)
}
