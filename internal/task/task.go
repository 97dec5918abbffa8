package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Task is a single to-do item.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Priority  Priority  `json:"priority" yaml:"priority"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// UnmarshalJSON accepts both string and integer ids.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode id: %w", err)
	}
	return n.String(), nil
}

// Clone returns a copy of tasks. A nil slice stays nil.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Index returns the position of the task with id, or -1.
func Index(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
