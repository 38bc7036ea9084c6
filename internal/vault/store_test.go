package vault

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zpasskit/zpass/models"
)

// fakeClock returns a time source that advances one second per call, so
// every mutation gets a strictly later timestamp.
func fakeClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	s.SetClock(fakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	return s
}

func TestStore_CreateEntry(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateEntry(models.Entry{Title: "Gmail", Username: "a@b.com", Secret: "x"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, int64(1), s.Revision())

	_, err = s.CreateEntry(models.Entry{})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestStore_EveryMutationBumpsRevision(t *testing.T) {
	s := newTestStore(t)

	e, err := s.CreateEntry(models.Entry{Title: "Gmail", Secret: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Revision())

	e.Secret = "y"
	e.UpdatedAt = e.UpdatedAt.Add(time.Minute)
	_, err = s.UpdateEntry(e)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Revision())

	require.NoError(t, s.DeleteEntry(e.ID))
	assert.Equal(t, int64(3), s.Revision())

	// Read operations never move the counter.
	s.Entries(true)
	_, _ = s.Entry(e.ID)
	assert.Equal(t, int64(3), s.Revision())
}

func TestStore_UpdateEntry_RejectsStaleWrite(t *testing.T) {
	s := newTestStore(t)

	e, err := s.CreateEntry(models.Entry{Title: "Gmail", Secret: "x"})
	require.NoError(t, err)

	// First editor wins.
	fresh := e
	fresh.Secret = "first"
	fresh.UpdatedAt = e.UpdatedAt.Add(time.Minute)
	_, err = s.UpdateEntry(fresh)
	require.NoError(t, err)

	// Second editor still holds the pre-edit snapshot: same UpdatedAt.
	stale := e
	stale.Secret = "second"
	_, err = s.UpdateEntry(stale)
	assert.ErrorIs(t, err, ErrStaleWrite)

	got, err := s.Entry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Secret, "stale write must not clobber the newer value")
}

func TestStore_DeleteEntry_TombstonesNotRemoves(t *testing.T) {
	s := newTestStore(t)

	e, err := s.CreateEntry(models.Entry{Title: "Gmail", Secret: "x"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteEntry(e.ID))

	// Default listing hides the tombstone; get reports not found.
	assert.Empty(t, s.Entries(false))
	_, err = s.Entry(e.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// Sync still sees it.
	all := s.Entries(true)
	require.Len(t, all, 1)
	assert.True(t, all[0].Deleted)
	assert.True(t, all[0].UpdatedAt.After(e.UpdatedAt), "tombstoning must bump UpdatedAt")

	// Double delete is an error.
	assert.ErrorIs(t, s.DeleteEntry(e.ID), ErrEntryNotFound)
}

func TestStore_GarbageCollection_Horizon(t *testing.T) {
	s := newTestStore(t)

	e, err := s.CreateEntry(models.Entry{Title: "Gmail", Secret: "x"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteEntry(e.ID))

	// One completed sync cycle is not enough.
	s.MarkSynced()
	assert.Equal(t, 0, s.CollectGarbage())
	assert.Len(t, s.Entries(true), 1)

	// Two cycles cross the horizon.
	s.MarkSynced()
	assert.Equal(t, 1, s.CollectGarbage())
	assert.Empty(t, s.Entries(true))
}

func TestStore_DeleteCategory_NoCascade(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CreateCategory("Mail")
	require.NoError(t, err)

	e, err := s.CreateEntry(models.Entry{Title: "Gmail", Secret: "x", CategoryID: cat.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(cat.ID))

	got, err := s.Entry(e.ID)
	require.NoError(t, err, "deleting a category must not delete its entries")
	assert.Empty(t, got.CategoryID, "entry must fall back to uncategorized")
	assert.True(t, got.UpdatedAt.After(e.UpdatedAt), "fallback must propagate through sync")

	assert.ErrorIs(t, s.DeleteCategory(cat.ID), ErrCategoryNotFound)
}

func TestStore_RenameCategory(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CreateCategory("Mail")
	require.NoError(t, err)

	renamed, err := s.RenameCategory(cat.ID, "E-Mail")
	require.NoError(t, err)
	assert.Equal(t, "E-Mail", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(cat.UpdatedAt))

	_, err = s.RenameCategory("missing", "x")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := newTestStore(t)

	e, err := s.CreateEntry(models.Entry{Title: "Gmail", Secret: "x"})
	require.NoError(t, err)

	snap := s.Snapshot()

	// Mutating the store after the snapshot must not leak into it.
	e.Secret = "changed"
	e.UpdatedAt = e.UpdatedAt.Add(time.Minute)
	_, err = s.UpdateEntry(e)
	require.NoError(t, err)

	assert.Equal(t, "x", snap.Entries[e.ID].Secret)
}

func TestStore_LoadAndClear(t *testing.T) {
	s := newTestStore(t)

	snap := models.NewVaultSnapshot()
	snap.Entries["e1"] = models.Entry{ID: "e1", Title: "Gmail", Secret: "x", UpdatedAt: time.Now()}

	s.Load(snap)
	require.Len(t, s.Entries(false), 1)

	s.Clear()
	assert.Empty(t, s.Entries(true))
	assert.Empty(t, s.Categories())
}
