package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/task"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, "warn", "json", false, false)

	logger.Info("hidden")
	logger.Warn("shown", "key", "k")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if entry["msg"] != "shown" || entry["key"] != "k" || entry["prefix"] != "taskboard" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewTestLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	NewTest(&buf).Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("debug message missing: %q", buf.String())
	}
}

func readRecords(t *testing.T, path string) []Record {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("bad journal line %q: %v", scanner.Text(), err)
		}
		records = append(records, r)
	}
	return records
}

func TestJournalRecordsStoreEvents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	j, err := NewJournal(dir)
	if err != nil {
		t.Fatalf("NewJournal() error = %v", err)
	}

	s := store.New(storage.NewMemoryBackend(), store.WithListener(j),
		store.WithIDGenerator(&task.SequenceGenerator{Prefix: "t"}))
	if _, err := s.AddTask("Buy milk", task.PriorityLow); err != nil {
		t.Fatal(err)
	}
	s.ToggleTask("t1")
	s.AddTask("  ", "")
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
	if j.Err() != nil {
		t.Fatalf("Err() = %v", j.Err())
	}

	if filepath.Dir(j.Path) != dir || !strings.HasSuffix(j.Path, JournalExt) {
		t.Errorf("Path = %s", j.Path)
	}
	records := readRecords(t, j.Path)
	var types []string
	for _, r := range records {
		types = append(types, string(r.Type))
	}
	if got := strings.Join(types, ","); got != "snapshot,snapshot,all_complete,rejected" {
		t.Fatalf("types = %s", got)
	}
	if records[1].Stats == nil || records[1].Stats.Progress != 100 || records[1].Visible != 1 {
		t.Errorf("snapshot record = %+v", records[1])
	}
	if records[3].Reason != store.ReasonEmptyText {
		t.Errorf("reason = %q", records[3].Reason)
	}
}

func TestJournalAfterClose(t *testing.T) {
	j, err := NewJournal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	j.Close()
	j.Notify(store.Event{Type: store.EventSnapshot})
	if err := j.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	var nilJournal *Journal
	if err := nilJournal.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
}

func TestNewRecordError(t *testing.T) {
	r := NewRecord(store.Event{
		Type:      store.EventPersistFailed,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("X", 3600)),
		Err:       errors.New("quota"),
	})
	if r.Error != "quota" {
		t.Errorf("Error = %q", r.Error)
	}
	if r.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp not UTC: %v", r.Timestamp)
	}
	if r.Stats != nil {
		t.Error("Stats set without snapshot")
	}
}

func TestNewJournalEmptyDir(t *testing.T) {
	if _, err := NewJournal(""); err == nil {
		t.Fatal("NewJournal(\"\") error = nil")
	}
}

func TestOpenRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	f, err := OpenRunLog(dir, "run1")
	if err != nil {
		t.Fatalf("OpenRunLog() error = %v", err)
	}
	defer f.Close()
	if f.Name() != filepath.Join(dir, "run1.log") {
		t.Errorf("Name = %s", f.Name())
	}
}

func TestFindLatestJournal(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestJournal(filepath.Join(t.TempDir(), "nope"))
		if err != nil || got != "" {
			t.Errorf("FindLatestJournal() = %q, %v", got, err)
		}
	})

	t.Run("picks newest jsonl", func(t *testing.T) {
		dir := t.TempDir()
		base := time.Now().Add(-time.Hour)
		files := []struct {
			name string
			age  time.Duration
		}{
			{"a.jsonl", 0},
			{"b.jsonl", 2 * time.Minute},
			{"c.log", 10 * time.Minute},
		}
		for _, f := range files {
			path := filepath.Join(dir, f.name)
			if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			mt := base.Add(f.age)
			if err := os.Chtimes(path, mt, mt); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.Mkdir(filepath.Join(dir, "z.jsonl"), 0o755); err != nil {
			t.Fatal(err)
		}

		got, err := FindLatestJournal(dir)
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(dir, "b.jsonl"); got != want {
			t.Errorf("FindLatestJournal() = %q, want %q", got, want)
		}
	})
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	if err := os.WriteFile(path, []byte("1\n2\n3\n4\n5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "1\n2\n3\n4\n5\n"},
		{2, "4\n5\n"},
		{10, "1\n2\n3\n4\n5\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("Tail(n=%d) error = %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("Tail(n=%d) = %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := Tail(context.Background(), &bytes.Buffer{}, path+".missing", 0, false); err == nil {
		t.Error("Tail() on missing file: want error")
	}
}

// syncBuffer guards a bytes.Buffer shared with the following goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	if err := os.WriteFile(path, []byte("first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- Tail(ctx, out, path, 0, true) }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(out.String(), "second") {
		if time.Now().After(deadline) {
			t.Fatalf("appended line not followed, got %q", out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Tail() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Tail did not stop after cancel")
	}
	if got := out.String(); got != "first\nsecond\n" {
		t.Errorf("output = %q", got)
	}
}
