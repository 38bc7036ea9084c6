package service

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/zpasskit/zpass/internal/adapter"
	"github.com/zpasskit/zpass/internal/utils"
	"github.com/zpasskit/zpass/models"
)

// fakeServer is an in-process ServerAdapter with real optimistic-concurrency
// semantics, plus scripting hooks for failure injection.
type fakeServer struct {
	mu sync.Mutex

	accounts map[string]fakeAccount
	blob     string
	revision int64
	token    string

	tokenDuration time.Duration

	// pullFailures / pushFailures are consumed one per call before the
	// operation succeeds, simulating transient network trouble.
	pullFailures int
	pushFailures int

	// beforePush runs under the lock right before the CAS check, letting a
	// test impersonate a concurrent writer.
	beforePush func(s *fakeServer)

	pullDelay time.Duration

	pullCount int
	pushCount int
}

type fakeAccount struct {
	credential string
	saltB64    string
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		accounts:      map[string]fakeAccount{},
		tokenDuration: time.Hour,
	}
}

var errTransient = errors.New("connection refused")

func (f *fakeServer) Register(_ context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.accounts[req.Login]; exists {
		return models.RegisterResponse{}, adapter.ErrLoginAlreadyExists
	}
	f.accounts[req.Login] = fakeAccount{credential: req.AuthCredential, saltB64: req.AccountSalt}
	return models.RegisterResponse{AccountSalt: req.AccountSalt}, nil
}

func (f *fakeServer) AccountParams(_ context.Context, login string) (models.ParamsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[login]
	if !ok {
		return models.ParamsResponse{}, adapter.ErrAccountNotFound
	}
	return models.ParamsResponse{AccountSalt: account.saltB64}, nil
}

func (f *fakeServer) Login(_ context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[req.Login]
	if !ok || account.credential != req.AuthCredential {
		return models.LoginResponse{}, adapter.ErrUnauthorized
	}

	token, err := utils.GenerateJWTToken("fake-server", 1, f.tokenDuration, "fake-sign-key")
	if err != nil {
		return models.LoginResponse{}, err
	}
	f.token = token.SignedString

	return models.LoginResponse{SessionToken: token.SignedString, AccountSalt: account.saltB64}, nil
}

func (f *fakeServer) Verify(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return adapter.ErrUnauthorized
	}
	return nil
}

func (f *fakeServer) PullVault(context.Context) (models.VaultGetResponse, error) {
	if f.pullDelay > 0 {
		time.Sleep(f.pullDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.pullCount++
	if f.pullFailures > 0 {
		f.pullFailures--
		return models.VaultGetResponse{}, errTransient
	}

	return models.VaultGetResponse{Ciphertext: f.blob, RemoteRevision: f.revision}, nil
}

func (f *fakeServer) PushVault(_ context.Context, req models.VaultPutRequest) (models.VaultPutResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pushCount++
	if f.pushFailures > 0 {
		f.pushFailures--
		return models.VaultPutResponse{}, errTransient
	}

	if f.beforePush != nil {
		f.beforePush(f)
	}

	if req.ExpectedRemoteRevision != f.revision {
		return models.VaultPutResponse{}, adapter.ErrRevisionConflict
	}

	f.blob = req.Ciphertext
	f.revision++
	return models.VaultPutResponse{NewRemoteRevision: f.revision}, nil
}

func (f *fakeServer) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeServer) pulls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pullCount
}

func (f *fakeServer) pushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushCount
}

func (f *fakeServer) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// fakeSession is a SessionManager stub for sync-engine tests that are not
// about authentication.
type fakeSession struct {
	login       string
	salt        []byte
	ensureErr   error
	ensureCalls int
}

func (f *fakeSession) Register(context.Context, string, string) error { return nil }
func (f *fakeSession) Login(context.Context, string, string) ([]byte, error) {
	return nil, nil
}
func (f *fakeSession) Refresh(context.Context) error { return nil }
func (f *fakeSession) EnsureValid(context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}
func (f *fakeSession) Valid() bool          { return f.ensureErr == nil }
func (f *fakeSession) AccountLogin() string { return f.login }
func (f *fakeSession) AccountSalt() []byte  { return f.salt }
func (f *fakeSession) Logout()              {}

// stubEngine satisfies SyncEngine for autolock tests.
type stubEngine struct {
	mu       sync.Mutex
	key      []byte
	revision int64
}

func (s *stubEngine) Sync(context.Context) error { return nil }
func (s *stubEngine) State() SyncState           { return StateIdle }
func (s *stubEngine) SetEncryptionKey(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
}
func (s *stubEngine) RemoteRevision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *stubEngine) heldKey() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

func saltB64(salt []byte) string {
	return base64.StdEncoding.EncodeToString(salt)
}
