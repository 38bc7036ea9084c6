package vault

import (
	"sort"
	"sync"
	"time"

	"github.com/zpasskit/zpass/internal/utils"
	"github.com/zpasskit/zpass/models"
)

// GCHorizon is the number of completed sync cycles a tombstone must be
// observed by before it may be hard-removed. Two cycles give late-arriving
// offline deletes from other devices a chance to propagate first.
const GCHorizon = 2

// Store is the in-memory credential collection of one unlocked session.
type Store struct {
	mu         sync.Mutex
	entries    map[string]models.Entry
	categories map[string]models.Category
	revision   int64

	ids *utils.UUIDGenerator

	// now is the clock used for server-assigned timestamps. Replaceable in
	// tests via SetClock.
	now func() time.Time
}

// NewStore returns an empty unlocked store at revision 0.
func NewStore() *Store {
	return &Store{
		entries:    make(map[string]models.Entry),
		categories: make(map[string]models.Category),
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
	}
}

// SetClock replaces the store's time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Revision returns the local revision counter. It increases by one on every
// successful mutation and is how the sync engine detects pending local edits.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// CreateEntry adds a new entry. The store assigns the id and both
// timestamps; the caller's values for those fields are ignored.
func (s *Store) CreateEntry(e models.Entry) (models.Entry, error) {
	if e.Title == "" {
		return models.Entry{}, ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	e.ID = s.ids.Generate()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.Deleted = false
	e.SyncCycles = 0

	s.entries[e.ID] = e
	s.revision++

	return e, nil
}

// UpdateEntry replaces the stored entry wholesale. The replacement's
// UpdatedAt must be strictly newer than the stored one; otherwise the caller
// edited a pre-sync copy and gets ErrStaleWrite. An update of a tombstoned
// entry resurrects it.
func (s *Store) UpdateEntry(e models.Entry) (models.Entry, error) {
	if e.ID == "" {
		return models.Entry{}, ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[e.ID]
	if !ok {
		return models.Entry{}, ErrEntryNotFound
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = s.now().UTC()
	}
	if !e.UpdatedAt.After(stored.UpdatedAt) {
		return models.Entry{}, ErrStaleWrite
	}

	e.CreatedAt = stored.CreatedAt // identity fields never change
	e.Deleted = false
	e.SyncCycles = 0

	s.entries[e.ID] = e
	s.revision++

	return e, nil
}

// DeleteEntry tombstones an entry. The record is retained so the deletion
// propagates through sync; hard removal happens at the GC horizon.
func (s *Store) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[id]
	if !ok || stored.Deleted {
		return ErrEntryNotFound
	}

	stored.Deleted = true
	stored.SyncCycles = 0
	stored.UpdatedAt = s.now().UTC()

	s.entries[id] = stored
	s.revision++

	return nil
}

// Entry returns the live entry for id. Tombstoned entries are reported as
// not found; sync code reaches them through Entries(true).
func (s *Store) Entry(id string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.Deleted {
		return models.Entry{}, ErrEntryNotFound
	}
	return e, nil
}

// Entries lists entries ordered by title. Tombstones are excluded unless
// includeDeleted is set.
func (s *Store) Entries(includeDeleted bool) []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Deleted && !includeDeleted {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CreateCategory adds a new named category.
func (s *Store) CreateCategory(name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Category{
		ID:        s.ids.Generate(),
		Name:      name,
		UpdatedAt: s.now().UTC(),
	}
	s.categories[c.ID] = c
	s.revision++

	return c, nil
}

// RenameCategory changes a category's display name.
func (s *Store) RenameCategory(id, name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, ErrCategoryNotFound
	}
	c.Name = name
	c.UpdatedAt = s.now().UTC()
	s.categories[id] = c
	s.revision++

	return c, nil
}

// DeleteCategory removes a category. Entries referencing it fall back to
// uncategorized: the weak reference is cleared, nothing cascades.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(s.categories, id)

	now := s.now().UTC()
	for eid, e := range s.entries {
		if e.CategoryID == id {
			e.CategoryID = ""
			e.UpdatedAt = now
			s.entries[eid] = e
		}
	}
	s.revision++

	return nil
}

// Categories lists all categories ordered by name.
func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Snapshot returns a deep copy of the current contents. The copy is safe to
// encrypt or merge while the UI keeps mutating the live store.
func (s *Store) Snapshot() models.VaultSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.NewVaultSnapshot()
	for id, e := range s.entries {
		snap.Entries[id] = e
	}
	for id, c := range s.categories {
		snap.Categories[id] = c
	}
	return snap
}

// Load replaces the store contents with the given snapshot in one step.
// Used after a successful merge and after unlock. Counts as one mutation.
func (s *Store) Load(snap models.VaultSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]models.Entry, len(snap.Entries))
	for id, e := range snap.Entries {
		s.entries[id] = e
	}
	s.categories = make(map[string]models.Category, len(snap.Categories))
	for id, c := range snap.Categories {
		s.categories[id] = c
	}
	s.revision++
}

// Clear wipes all plaintext from memory. Called on lock; the contents are
// recoverable only by decrypting the local ciphertext cache again.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]models.Entry)
	s.categories = make(map[string]models.Category)
	s.revision++
}

// MarkSynced records a completed sync cycle on every tombstone.
func (s *Store) MarkSynced() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.Deleted {
			e.SyncCycles++
			s.entries[id] = e
		}
	}
}

// CollectGarbage hard-removes tombstones that have been observed by at
// least GCHorizon completed sync cycles. Returns the number removed.
func (s *Store) CollectGarbage() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.Deleted && e.SyncCycles >= GCHorizon {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
