package store

import (
	"time"

	"github.com/nibzard/taskboard/internal/task"
)

// EventType identifies a store notification.
type EventType string

const (
	// EventSnapshot carries the visible tasks and stats after a change.
	EventSnapshot EventType = "snapshot"
	// EventAllComplete fires once per transition into the 100% state.
	EventAllComplete EventType = "all_complete"
	// EventRejected reports an operation that changed nothing; see Reason.
	EventRejected EventType = "rejected"
	// EventConfirmRequested reports a newly armed pending confirmation.
	EventConfirmRequested EventType = "confirm_requested"
	// EventConfirmResolved reports a pending confirmation that was executed
	// or cancelled.
	EventConfirmResolved EventType = "confirm_resolved"
	// EventPersistFailed reports a save failure. The in-memory state is kept.
	EventPersistFailed EventType = "persist_failed"
)

// Reason is the code carried by EventRejected.
type Reason string

const (
	ReasonEmptyText      Reason = "empty-text"
	ReasonInvalidFilter  Reason = "invalid-filter"
	ReasonNothingToClear Reason = "nothing-to-clear"
)

// ConfirmKind names the destructive action behind a confirmation.
type ConfirmKind string

const (
	ConfirmDelete         ConfirmKind = "delete"
	ConfirmClearCompleted ConfirmKind = "clear_completed"
	ConfirmClearAll       ConfirmKind = "clear_all"
)

// Confirmation describes a pending destructive action.
type Confirmation struct {
	Kind        ConfirmKind `json:"kind"`
	Description string      `json:"description"`
	// TaskID is set for ConfirmDelete.
	TaskID string `json:"task_id,omitempty"`
}

// Snapshot is a read-only, point-in-time view handed to adapters.
type Snapshot struct {
	Filter task.Filter `json:"filter" yaml:"filter"`
	Tasks  []task.Task `json:"tasks" yaml:"tasks"`
	Stats  task.Stats  `json:"stats" yaml:"stats"`
}

// Event is a single store notification.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Snapshot is set for EventSnapshot.
	Snapshot *Snapshot `json:"snapshot,omitempty"`

	// Reason is set for EventRejected.
	Reason Reason `json:"reason,omitempty"`

	// Kind is set for the confirmation events and for nothing-to-clear
	// rejections, so adapters can tell the two bulk clears apart.
	Kind ConfirmKind `json:"kind,omitempty"`

	// Description is the human-readable confirmation prompt.
	Description string `json:"description,omitempty"`

	// TaskID is the target of a delete confirmation.
	TaskID string `json:"task_id,omitempty"`

	// Executed is true when a resolved confirmation ran its action.
	Executed bool `json:"executed,omitempty"`

	// Err is set for EventPersistFailed and invalid-filter rejections.
	Err error `json:"-"`
}

// Listener receives store events.
type Listener interface {
	Notify(event Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Notify calls f.
func (f ListenerFunc) Notify(event Event) {
	f(event)
}

// MultiListener fans events out to several listeners.
type MultiListener struct {
	listeners []Listener
}

// NewMultiListener creates a fan-out listener. Nil entries are skipped.
func NewMultiListener(listeners ...Listener) *MultiListener {
	m := &MultiListener{}
	for _, l := range listeners {
		m.Add(l)
	}
	return m
}

// Add appends l.
func (m *MultiListener) Add(l Listener) {
	if l == nil {
		return
	}
	m.listeners = append(m.listeners, l)
}

// Notify forwards event to every listener in registration order.
func (m *MultiListener) Notify(event Event) {
	for _, l := range m.listeners {
		l.Notify(event)
	}
}

// NullListener discards events.
type NullListener struct{}

// Notify does nothing.
func (NullListener) Notify(Event) {}

// Recorder buffers events until drained.
type Recorder struct {
	events []Event
}

// Notify appends event.
func (r *Recorder) Notify(event Event) {
	r.events = append(r.events, event)
}

// Drain returns the buffered events and empties the buffer.
func (r *Recorder) Drain() []Event {
	events := r.events
	r.events = nil
	return events
}

// Count returns how many buffered events have type t.
func (r *Recorder) Count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}
