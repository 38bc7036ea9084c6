// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/zpasskit/zpass/models"
)

// codec is the private implementation of [Codec].
type codec struct{}

// NewCodec constructs a [Codec] using AES-256-GCM with a 12-byte random
// nonce prepended to the ciphertext: blob = base64(nonce ‖ ciphertext).
func NewCodec() Codec {
	return &codec{}
}

// Encrypt implements [Codec].
func (c *codec) Encrypt(snapshot models.VaultSnapshot, key []byte) (string, error) {
	envelope := models.VaultEnvelope{
		Version:    models.VaultFormatVersion,
		Entries:    sortedEntries(snapshot),
		Categories: sortedCategories(snapshot),
	}

	plaintext, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshal vault envelope: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// The nonce is drawn from the CSPRNG immediately before sealing, never
	// reused or derived: nonce reuse under one key breaks GCM entirely.
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Codec].
func (c *codec) Decrypt(ciphertext string, key []byte) (models.VaultSnapshot, error) {
	// A fresh account has no blob yet; it decrypts to an empty vault.
	if ciphertext == "" {
		return models.NewVaultSnapshot(), nil
	}

	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return models.VaultSnapshot{}, fmt.Errorf("decode base64: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return models.VaultSnapshot{}, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return models.VaultSnapshot{}, fmt.Errorf("%w: ciphertext too short", ErrAuthenticationFailed)
	}
	nonce, sealed := blob[:nonceSize], blob[nonceSize:]

	// Tag verification is the only wrong-master-secret signal in the
	// system; a failure here must never decode into corrupted data.
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return models.VaultSnapshot{}, ErrAuthenticationFailed
	}

	var envelope models.VaultEnvelope
	if err := json.Unmarshal(plaintext, &envelope); err != nil {
		return models.VaultSnapshot{}, fmt.Errorf("unmarshal vault envelope: %w", err)
	}
	if envelope.Version != models.VaultFormatVersion {
		return models.VaultSnapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, envelope.Version)
	}

	snapshot := models.NewVaultSnapshot()
	for _, e := range envelope.Entries {
		snapshot.Entries[e.ID] = e
	}
	for _, cat := range envelope.Categories {
		snapshot.Categories[cat.ID] = cat
	}

	return snapshot, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// sortedEntries returns the snapshot's entries ordered by id so the
// serialized form is deterministic for a given vault state.
func sortedEntries(s models.VaultSnapshot) []models.Entry {
	out := make([]models.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedCategories(s models.VaultSnapshot) []models.Category {
	out := make([]models.Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
