package vault

import "github.com/zpasskit/zpass/models"

// Merge reconciles local and remote vault states against their common
// ancestor base (the snapshot from the last successful sync). It is a pure
// function: no side effects, deterministic output, safe to re-run.
//
// Per entry id, applied independently:
//   - changed on one side only → that side wins;
//   - changed on both sides → later UpdatedAt wins, the loser is discarded
//     (last-writer-wins at entry granularity, ties go to remote);
//   - a tombstone beats a concurrent edit dated before it; an edit dated
//     after the tombstone resurrects the entry.
//
// Absence of an id that exists in base means the holder hard-removed it at
// the GC horizon; the removal is accepted unless the other side has edited
// the entry since base, in which case the edit is preserved.
func Merge(base, local, remote models.VaultSnapshot) models.VaultSnapshot {
	out := models.NewVaultSnapshot()

	for _, id := range unionKeys(local.Entries, remote.Entries) {
		l, lok := local.Entries[id]
		r, rok := remote.Entries[id]
		b, bok := base.Entries[id]

		switch {
		case lok && !rok:
			// Remote no longer carries the entry. Keep the local copy only
			// if it diverged from the ancestor.
			if !bok || !entryEqual(l, b) {
				out.Entries[id] = l
			}

		case !lok && rok:
			if !bok || !entryEqual(r, b) {
				out.Entries[id] = r
			}

		default: // present on both sides
			localChanged := !bok || !entryEqual(l, b)
			remoteChanged := !bok || !entryEqual(r, b)

			switch {
			case !localChanged:
				out.Entries[id] = r
			case !remoteChanged:
				out.Entries[id] = l
			case entryEqual(l, r):
				out.Entries[id] = r
			case l.UpdatedAt.After(r.UpdatedAt):
				out.Entries[id] = l
			default:
				out.Entries[id] = r
			}
		}
	}

	for _, id := range unionKeys(local.Categories, remote.Categories) {
		l, lok := local.Categories[id]
		r, rok := remote.Categories[id]
		b, bok := base.Categories[id]

		switch {
		case lok && !rok:
			if !bok || l != b {
				out.Categories[id] = l
			}
		case !lok && rok:
			if !bok || r != b {
				out.Categories[id] = r
			}
		default:
			localChanged := !bok || l != b
			remoteChanged := !bok || r != b

			switch {
			case !localChanged:
				out.Categories[id] = r
			case !remoteChanged:
				out.Categories[id] = l
			case l.UpdatedAt.After(r.UpdatedAt):
				out.Categories[id] = l
			default:
				out.Categories[id] = r
			}
		}
	}

	return out
}

// SnapshotsEqual reports whether two snapshots carry the same durable
// content. Like [Merge] it ignores SyncCycles, so two snapshots that differ
// only in local GC bookkeeping compare equal.
func SnapshotsEqual(a, b models.VaultSnapshot) bool {
	if len(a.Entries) != len(b.Entries) || len(a.Categories) != len(b.Categories) {
		return false
	}
	for id, ae := range a.Entries {
		be, ok := b.Entries[id]
		if !ok || !entryEqual(ae, be) {
			return false
		}
	}
	for id, ac := range a.Categories {
		bc, ok := b.Categories[id]
		if !ok || ac != bc {
			return false
		}
	}
	return true
}

// entryEqual compares the durable content of two entries. SyncCycles is a
// local bookkeeping counter and never participates in conflict detection.
func entryEqual(a, b models.Entry) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Username == b.Username &&
		a.Secret == b.Secret &&
		a.URL == b.URL &&
		a.CategoryID == b.CategoryID &&
		a.Notes == b.Notes &&
		a.Deleted == b.Deleted &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func unionKeys[V any](a, b map[string]V) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			keys = append(keys, id)
		}
	}
	for id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			keys = append(keys, id)
		}
	}
	return keys
}
