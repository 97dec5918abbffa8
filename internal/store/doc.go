// Package store owns the authoritative task collection.
//
// A Store holds the tasks (newest first), the active view filter and at most
// one pending destructive action awaiting confirmation. Every mutation runs
// the same cycle:
//
//  1. mutate the in-memory collection
//  2. persist the collection into the backend slot (best effort)
//  3. notify listeners with a fresh Snapshot
//  4. emit EventAllComplete when the collection has just reached 100%
//
// Destructive operations never run directly. RequestDelete,
// RequestClearCompleted and RequestClearAll arm a pending confirmation that
// runs on ConfirmPending and is dropped by CancelPending. Arming while another
// confirmation is pending replaces it (last request wins).
//
// # Concurrency
//
// A Store is not safe for concurrent use. Adapters call it from a single
// goroutine; snapshots they receive are copies.
package store
