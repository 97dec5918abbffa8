package ui

import (
	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/task"
)

// NoticeKind selects how a notice is styled.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a short user-facing message derived from a store event.
type Notice struct {
	Text string
	Kind NoticeKind
}

// Notice texts shown for store events.
const (
	TextEmptyTask        = "Please enter a task"
	TextNothingCompleted = "No completed tasks to clear"
	TextNothingAtAll     = "No tasks to clear"
	TextClearedCompleted = "Completed tasks cleared"
	TextClearedAll       = "All tasks cleared"
	TextDeleted          = "Task deleted"
	TextSaveFailed       = "Failed to save tasks"
	TextAllComplete      = "Congratulations! All tasks completed!"
	TextLoadFailed       = "Saved tasks could not be read, starting empty"
)

// NoticeFor maps a store event to the message adapters show for it.
// Snapshots, confirmation requests and cancellations have none.
func NoticeFor(e store.Event) (Notice, bool) {
	switch e.Type {
	case store.EventRejected:
		switch e.Reason {
		case store.ReasonEmptyText:
			return Notice{TextEmptyTask, NoticeError}, true
		case store.ReasonInvalidFilter:
			if e.Err != nil {
				return Notice{e.Err.Error(), NoticeError}, true
			}
			return Notice{"Invalid filter", NoticeError}, true
		case store.ReasonNothingToClear:
			if e.Kind == store.ConfirmClearCompleted {
				return Notice{TextNothingCompleted, NoticeInfo}, true
			}
			return Notice{TextNothingAtAll, NoticeInfo}, true
		}
	case store.EventConfirmResolved:
		if !e.Executed {
			return Notice{}, false
		}
		switch e.Kind {
		case store.ConfirmDelete:
			return Notice{TextDeleted, NoticeSuccess}, true
		case store.ConfirmClearCompleted:
			return Notice{TextClearedCompleted, NoticeSuccess}, true
		case store.ConfirmClearAll:
			return Notice{TextClearedAll, NoticeSuccess}, true
		}
	case store.EventPersistFailed:
		return Notice{TextSaveFailed, NoticeError}, true
	case store.EventAllComplete:
		return Notice{TextAllComplete, NoticeSuccess}, true
	}
	return Notice{}, false
}

// EmptyState returns the title and hint shown when filter matches nothing.
func EmptyState(f task.Filter) (title, hint string) {
	switch f {
	case task.FilterActive:
		return "No active tasks", "All your tasks are completed!"
	case task.FilterCompleted:
		return "No completed tasks", "Complete some tasks to see them here."
	default:
		return "No tasks yet", "Add a task above to get started with your productivity journey!"
	}
}
