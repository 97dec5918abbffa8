// Package logging builds the diagnostic logger and writes the per-run event
// journal.
//
// Diagnostics go through charmbracelet/log. The journal is a store listener
// that appends one JSON object per store event to <dir>/<run-id>.jsonl; the
// log command reads it back with FindLatestJournal and Tail.
package logging
