package task

import (
	"fmt"
	"strings"
)

// Priority is a label from a small closed set.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PrioritySet is the closed set of priority labels a store accepts, with the
// label used when a caller supplies none.
type PrioritySet struct {
	labels []Priority
	def    Priority
}

// DefaultPrioritySet returns low, medium, high with medium as the default.
func DefaultPrioritySet() PrioritySet {
	return PrioritySet{
		labels: []Priority{PriorityLow, PriorityMedium, PriorityHigh},
		def:    PriorityMedium,
	}
}

// NewPrioritySet builds a set from labels. Labels are lowercased and trimmed;
// the set must be non-empty, duplicate-free and contain def.
func NewPrioritySet(labels []string, def string) (PrioritySet, error) {
	if len(labels) == 0 {
		return PrioritySet{}, fmt.Errorf("priority set is empty")
	}
	set := PrioritySet{labels: make([]Priority, 0, len(labels))}
	seen := make(map[Priority]bool, len(labels))
	for _, label := range labels {
		p := normalizePriority(label)
		if p == "" {
			return PrioritySet{}, fmt.Errorf("priority label is empty")
		}
		if seen[p] {
			return PrioritySet{}, fmt.Errorf("duplicate priority %q", p)
		}
		seen[p] = true
		set.labels = append(set.labels, p)
	}
	set.def = normalizePriority(def)
	if !seen[set.def] {
		return PrioritySet{}, fmt.Errorf("default priority %q is not one of %s", def, set)
	}
	return set, nil
}

func normalizePriority(s string) Priority {
	return Priority(strings.ToLower(strings.TrimSpace(s)))
}

// Labels returns the labels in configured order.
func (s PrioritySet) Labels() []Priority {
	out := make([]Priority, len(s.labels))
	copy(out, s.labels)
	return out
}

// Default returns the default label.
func (s PrioritySet) Default() Priority {
	return s.def
}

// Contains reports whether p is in the set.
func (s PrioritySet) Contains(p Priority) bool {
	for _, label := range s.labels {
		if label == p {
			return true
		}
	}
	return false
}

// Resolve maps p onto the set: members are returned normalized, anything else
// becomes the default.
func (s PrioritySet) Resolve(p Priority) Priority {
	n := normalizePriority(string(p))
	if s.Contains(n) {
		return n
	}
	return s.def
}

// Next returns the label after p, wrapping around. Unknown labels start over
// from the first one.
func (s PrioritySet) Next(p Priority) Priority {
	if len(s.labels) == 0 {
		return p
	}
	for i, label := range s.labels {
		if label == p {
			return s.labels[(i+1)%len(s.labels)]
		}
	}
	return s.labels[0]
}

// String joins the labels with "|".
func (s PrioritySet) String() string {
	parts := make([]string, len(s.labels))
	for i, label := range s.labels {
		parts[i] = string(label)
	}
	return strings.Join(parts, "|")
}
