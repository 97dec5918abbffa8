// Package task defines the task record, its priority and filter vocabularies,
// summary statistics and the persisted snapshot format.
//
// A snapshot is a JSON array of task records in store order (newest first):
//
//	[
//	  {
//	    "id": "0190f3a2-6c1e-7b7a-9a51-3f0d8c2e4b11",
//	    "text": "Buy milk",
//	    "priority": "low",
//	    "completed": false,
//	    "createdAt": "2024-01-01T10:00:00Z"
//	  }
//	]
//
// # Validation
//
// Snapshots are validated against an embedded JSON Schema (draft 2020-12)
// before decoding. Ids may be strings or integers; integer ids come from
// older browser exports that used a millisecond timestamp and are converted to
// their decimal string.
//
// # File Format
//
// When encoding, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - "[]" for an empty collection
package task
