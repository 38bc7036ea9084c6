package store

import (
	"context"
	"sync"
	"time"

	"github.com/zpasskit/zpass/models"
)

// memoryUserRepository is an in-memory [UserRepository] used by handler and
// service tests.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]models.User
}

// memoryVaultRepository is an in-memory [VaultRepository] with the same CAS
// semantics as the PostgreSQL one.
type memoryVaultRepository struct {
	mu     sync.Mutex
	vaults map[int64]models.VaultBlob
}

// NewMemoryRepositories returns a repository set backed by process memory.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users:  &memoryUserRepository{nextID: 1, byID: map[int64]models.User{}},
		Vaults: &memoryVaultRepository{vaults: map[int64]models.VaultBlob{}},
	}
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Login == user.Login {
			return models.User{}, ErrLoginAlreadyExists
		}
	}

	user.UserID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.byID[user.UserID] = user

	created := user
	created.AuthCredential = ""
	return created, nil
}

func (r *memoryUserRepository) FindUserByLogin(_ context.Context, login string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.Login == login {
			return user, nil
		}
	}
	return models.User{}, ErrNoUserWasFound
}

func (r *memoryVaultRepository) GetVault(_ context.Context, userID int64) (models.VaultBlob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.vaults[userID], nil
}

func (r *memoryVaultRepository) ReplaceVault(_ context.Context, userID int64, ciphertext string, expectedRevision int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.vaults[userID]
	if current.Revision != expectedRevision {
		return 0, ErrVersionConflict
	}

	next := models.VaultBlob{Ciphertext: ciphertext, Revision: current.Revision + 1}
	r.vaults[userID] = next
	return next.Revision, nil
}
