// Package state holds the canonical in-memory snippet collection.
//
// # Overview
//
// Store is the single source of truth for snippets during a session. The
// engine calls into it from the Bubble Tea update loop; background commands
// (clipboard writes, import file reads) may read from it concurrently, so
// access is guarded by a sync.RWMutex.
//
// # Ordering
//
//   - Create inserts at the front (newest first)
//   - Update replaces in place, keeping the position
//   - Append (import) adds after the last element
//   - ReplaceAll swaps the whole collection
//
// # Write-through
//
// Every mutation hands the full collection to the Persister before
// returning. When that write fails the error is logged and kept as
// Snapshot.LastPersistError, and the in-memory change stays applied:
//
//	store := state.New(adapter, logger)
//	store.Restore(loaded)           // no write
//	store.Create(item)              // write
//	if err := store.Snapshot().LastPersistError; err != nil {
//		// surface a warning; the snippet is still in the list
//	}
//
// Version increases on every change, including Restore, so callers can
// cache derived views keyed by it.
//
// # Copies
//
// Everything returned to callers is a deep copy. Mutating a returned
// snippet's Tags slice never affects the store.
package state
