// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLength is the required per-account salt size in bytes.
	SaltLength = 32

	// KeyLength is the derived key size in bytes (AES-256).
	KeyLength = 32

	// KeyIterations is the fixed PBKDF2 iteration count. It is public and
	// deliberately high so each offline guess against a stolen blob+salt
	// costs real CPU time. Changing it changes every derived key, so it is
	// part of the vault format contract.
	KeyIterations = 100_000
)

// authDomain separates the server login credential from the vault key.
// Both derive from the same master secret, but through distinct one-way
// steps: compromising the server's credential store never yields the key.
const authDomain = "zpass/auth/v1"

// keychain is the private implementation of [Keychain].
type keychain struct{}

// NewKeychain constructs a [Keychain] using PBKDF2-SHA256 with the
// package-level derivation constants.
func NewKeychain() Keychain {
	return &keychain{}
}

// GenerateSalt implements [Keychain]. It reads SaltLength random bytes from
// the OS CSPRNG. Returns an error only if the random read fails.
func (k *keychain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [Keychain]. PBKDF2 processes every byte of the
// secret unconditionally, so execution time does not depend on the secret's
// bit pattern — only on the public iteration count.
func (k *keychain) DeriveKey(masterSecret string, salt []byte) ([]byte, error) {
	if len(salt) != SaltLength {
		return nil, ErrInvalidSalt
	}
	return pbkdf2.Key([]byte(masterSecret), salt, KeyIterations, KeyLength, sha256.New), nil
}

// AuthCredential implements [Keychain].
func (k *keychain) AuthCredential(key []byte) string {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte(authDomain))
	return hex.EncodeToString(h.Sum(nil))
}
