package task

import "strings"

// Filter is a view-only partition of tasks by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters returns every valid filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter validates a filter value.
func ParseFilter(value string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(value)))
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", &InvalidFilterError{Value: value}
}

// Match reports whether t belongs to the partition.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the tasks matching f in their original order. The result is
// always a fresh slice.
func Apply(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
