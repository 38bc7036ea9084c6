// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zpasskit/zpass/internal/adapter"
	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/utils"
	"github.com/zpasskit/zpass/models"
)

// refreshSkew is how long before expiry a token is treated as stale, so a
// token that passes Valid() cannot expire mid-request.
const refreshSkew = 30 * time.Second

type sessionManager struct {
	adapter  adapter.ServerAdapter
	keychain crypto.Keychain
	logger   *logger.Logger

	mu sync.Mutex
	// credential is the derived login credential, retained so Refresh can
	// re-authenticate without the master secret. It is one-way derived from
	// the key; holding it grants no access to vault plaintext.
	credential string
	login      string
	salt       []byte
}

// NewSessionManager constructs the client-side [SessionManager].
func NewSessionManager(adapter adapter.ServerAdapter, keychain crypto.Keychain, logger *logger.Logger) SessionManager {
	logger.Debug().Msg("creating session manager")
	return &sessionManager{
		adapter:  adapter,
		keychain: keychain,
		logger:   logger,
	}
}

// Register implements [SessionManager].
func (s *sessionManager) Register(ctx context.Context, login, masterSecret string) error {
	if login == "" {
		return ErrInvalidDataProvided
	}

	salt, err := s.keychain.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate account salt: %w", err)
	}

	key, err := s.keychain.DeriveKey(masterSecret, salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	defer zero(key)

	_, err = s.adapter.Register(ctx, models.RegisterRequest{
		Login:          login,
		AuthCredential: s.keychain.AuthCredential(key),
		AccountSalt:    base64.StdEncoding.EncodeToString(salt),
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("login", login).Msg("account registered")
	return nil
}

// Login implements [SessionManager]. It is the only place the master secret
// is handled on the login path; everything downstream sees only the derived
// key and credential.
func (s *sessionManager) Login(ctx context.Context, login, masterSecret string) ([]byte, error) {
	if login == "" {
		return nil, ErrInvalidDataProvided
	}

	params, err := s.adapter.AccountParams(ctx, login)
	if err != nil {
		if errors.Is(err, adapter.ErrAccountNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, fmt.Errorf("fetch account params: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(params.AccountSalt)
	if err != nil {
		return nil, fmt.Errorf("decode account salt: %w", err)
	}

	key, err := s.keychain.DeriveKey(masterSecret, salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	credential := s.keychain.AuthCredential(key)
	if _, err = s.adapter.Login(ctx, models.LoginRequest{
		Login:          login,
		AuthCredential: credential,
	}); err != nil {
		zero(key)
		if errors.Is(err, adapter.ErrUnauthorized) {
			return nil, ErrWrongCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.login = login
	s.credential = credential
	s.salt = salt
	s.mu.Unlock()

	s.logger.Info().Str("login", login).Msg("session established")
	return key, nil
}

// Refresh implements [SessionManager]. Tokens are re-obtained through a full
// login with the retained credential, never extended.
func (s *sessionManager) Refresh(ctx context.Context) error {
	s.mu.Lock()
	login, credential := s.login, s.credential
	s.mu.Unlock()

	if credential == "" {
		return ErrNotLoggedIn
	}

	if _, err := s.adapter.Login(ctx, models.LoginRequest{
		Login:          login,
		AuthCredential: credential,
	}); err != nil {
		if errors.Is(err, adapter.ErrUnauthorized) {
			return ErrSessionExpired
		}
		return fmt.Errorf("refresh session: %w", err)
	}

	s.logger.Debug().Str("login", login).Msg("session refreshed")
	return nil
}

// EnsureValid implements [SessionManager].
func (s *sessionManager) EnsureValid(ctx context.Context) error {
	if s.Valid() {
		return nil
	}
	return s.Refresh(ctx)
}

// Valid implements [SessionManager]. The expiry check reads the unverified
// exp claim: the client only decides when to refresh, enforcement stays
// server-side against the signature.
func (s *sessionManager) Valid() bool {
	token := s.adapter.Token()
	if token == "" {
		return false
	}

	expiry, err := utils.TokenExpiry(token)
	if err != nil {
		return false
	}

	return time.Now().Add(refreshSkew).Before(expiry)
}

// AccountLogin implements [SessionManager].
func (s *sessionManager) AccountLogin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login
}

// AccountSalt implements [SessionManager].
func (s *sessionManager) AccountSalt() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]byte, len(s.salt))
	copy(out, s.salt)
	return out
}

// Logout implements [SessionManager].
func (s *sessionManager) Logout() {
	s.mu.Lock()
	s.login = ""
	s.credential = ""
	s.salt = nil
	s.mu.Unlock()

	s.adapter.SetToken("")
	s.logger.Info().Msg("session closed")
}

// zero overwrites key material in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
