package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/task"
)

// JournalExt is the file extension of event journals.
const JournalExt = ".jsonl"

// Record is one journal line.
type Record struct {
	Type        store.EventType   `json:"type"`
	Timestamp   time.Time         `json:"timestamp"`
	Reason      store.Reason      `json:"reason,omitempty"`
	Kind        store.ConfirmKind `json:"kind,omitempty"`
	Description string            `json:"description,omitempty"`
	TaskID      string            `json:"task_id,omitempty"`
	Executed    bool              `json:"executed,omitempty"`
	Error       string            `json:"error,omitempty"`
	Filter      task.Filter       `json:"filter,omitempty"`
	Visible     int               `json:"visible,omitempty"`
	Stats       *task.Stats       `json:"stats,omitempty"`
}

// NewRecord flattens a store event into a journal record.
func NewRecord(e store.Event) Record {
	r := Record{
		Type:        e.Type,
		Timestamp:   e.Timestamp.UTC(),
		Reason:      e.Reason,
		Kind:        e.Kind,
		Description: e.Description,
		TaskID:      e.TaskID,
		Executed:    e.Executed,
	}
	if e.Err != nil {
		r.Error = e.Err.Error()
	}
	if e.Snapshot != nil {
		stats := e.Snapshot.Stats
		r.Filter = e.Snapshot.Filter
		r.Visible = len(e.Snapshot.Tasks)
		r.Stats = &stats
	}
	return r
}

// Journal appends store events to a per-run JSONL file. It implements
// store.Listener and is safe for concurrent use.
type Journal struct {
	Dir   string
	RunID string
	Path  string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	err  error
}

// NewJournal creates dir if needed and opens a fresh journal file in it.
func NewJournal(dir string) (*Journal, error) {
	if dir == "" {
		return nil, fmt.Errorf("journal dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	id := runID()
	path := filepath.Join(dir, id+JournalExt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create journal file: %w", err)
	}

	return &Journal{
		Dir:   dir,
		RunID: id,
		Path:  path,
		file:  file,
		enc:   json.NewEncoder(file),
	}, nil
}

// Notify appends event. The first write error is kept and later events are
// dropped; see Err.
func (j *Journal) Notify(event store.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil || j.file == nil {
		return
	}
	if err := j.enc.Encode(NewRecord(event)); err != nil {
		j.err = fmt.Errorf("write journal: %w", err)
	}
}

// Err returns the first write error, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// OpenRunLog opens <dir>/<runID>.log for appending. The TUI sends
// diagnostics there because it owns the terminal.
func OpenRunLog(dir, runID string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, runID+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}
