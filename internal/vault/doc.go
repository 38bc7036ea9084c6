// Package vault holds the in-memory plaintext credential collection and the
// merge algorithm that reconciles it with a remote copy.
//
// The Store is owned by exactly one client session at a time. All mutation
// goes through a single mutex, which is the only supported concurrency
// boundary: the UI mutates the store while a sync cycle may be reading a
// snapshot of it, and the sync engine folds concurrent edits into the next
// merge instead of blocking them.
package vault
