package models

import "time"

// Entry is a single credential record in the vault.
// Identity is ID; every other field is mutable. Updates are whole-entry
// replacements, never field-level patches.
type Entry struct {
	// ID is the globally unique identifier of the entry, assigned once at
	// creation and immutable afterwards.
	ID string `json:"id"`

	// Title is the human-readable display name of the entry (e.g. "Gmail").
	Title string `json:"title"`

	// Username is the account name associated with the credential.
	Username string `json:"username"`

	// Secret is the stored password. It exists in plaintext only inside an
	// unlocked client; it is never persisted or transmitted unencrypted.
	Secret string `json:"secret"`

	// URL is the optional address of the service the credential belongs to.
	URL string `json:"url,omitempty"`

	// CategoryID is a weak reference to a Category by id. An empty value
	// means the entry is uncategorized. Deleting the referenced category
	// clears this field; it never cascades to the entry itself.
	CategoryID string `json:"category_id,omitempty"`

	// Notes is optional free-form text attached to the entry.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the timestamp when the entry was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last modification. It orders
	// concurrent edits during merge: the later UpdatedAt wins.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted marks the entry as tombstoned. Tombstones are retained until
	// the garbage-collection horizon so offline deletes still propagate.
	Deleted bool `json:"deleted,omitempty"`

	// SyncCycles counts completed sync cycles that observed this tombstone.
	// Only meaningful while Deleted is true; a tombstone seen by two full
	// cycles is eligible for hard removal.
	SyncCycles int `json:"sync_cycles,omitempty"`
}

// Category is a named grouping entries may reference by id.
type Category struct {
	// ID is the unique identifier of the category.
	ID string `json:"id"`

	// Name is the display name of the category.
	Name string `json:"name"`

	// UpdatedAt orders concurrent renames during merge.
	UpdatedAt time.Time `json:"updated_at"`
}
