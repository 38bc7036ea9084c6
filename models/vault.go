package models

// VaultFormatVersion is the current version tag of the serialized vault
// envelope. Decoders must reject unknown versions instead of attempting a
// best-effort parse.
const VaultFormatVersion = 1

// VaultEnvelope is the versioned, self-describing plaintext structure that
// is serialized and encrypted into a VaultBlob. The version tag is checked
// before any of the collections are interpreted.
type VaultEnvelope struct {
	Version    int        `json:"version"`
	Entries    []Entry    `json:"entries"`
	Categories []Category `json:"categories"`
}

// VaultSnapshot is an immutable plaintext copy of the vault contents, keyed
// for O(1) lookup. It is the unit the codec encrypts and the merge operates
// on; the live store is materialized from it after a successful sync.
type VaultSnapshot struct {
	Entries    map[string]Entry
	Categories map[string]Category
}

// NewVaultSnapshot returns an empty snapshot with initialized maps.
func NewVaultSnapshot() VaultSnapshot {
	return VaultSnapshot{
		Entries:    make(map[string]Entry),
		Categories: make(map[string]Category),
	}
}

// Clone returns a deep copy of the snapshot. Entries and categories are
// value types, so copying the maps is sufficient.
func (s VaultSnapshot) Clone() VaultSnapshot {
	out := VaultSnapshot{
		Entries:    make(map[string]Entry, len(s.Entries)),
		Categories: make(map[string]Category, len(s.Categories)),
	}
	for id, e := range s.Entries {
		out.Entries[id] = e
	}
	for id, c := range s.Categories {
		out.Categories[id] = c
	}
	return out
}

// VaultBlob is the authenticated-encrypted serialization of a vault paired
// with the server-assigned revision it was produced from or accepted at.
// This is the only form in which vault contents ever leave the client.
type VaultBlob struct {
	// Ciphertext is base64(nonce ‖ AES-256-GCM ciphertext). Empty means the
	// account has never pushed a vault.
	Ciphertext string `json:"ciphertext"`

	// Revision is the server-side monotonic counter used for optimistic
	// concurrency. A push is accepted only if the submitted revision matches
	// the server's current value.
	Revision int64 `json:"remote_revision"`
}
