package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/nibzard/taskboard/internal/task"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears every TASKBOARD_* variable.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, field := range Fields() {
		t.Setenv(EnvName(field), "")
	}
	chdir(t, work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("taskboard", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return fs
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, ".taskboard"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if cfg.Storage != DefaultStorage {
		t.Errorf("Storage: got %q, want %q", cfg.Storage, DefaultStorage)
	}
	if cfg.StorageKey != "taskManagerTasks" {
		t.Errorf("StorageKey: got %q", cfg.StorageKey)
	}
	if !slices.Equal(cfg.Priorities, []string{"low", "medium", "high"}) {
		t.Errorf("Priorities: got %v", cfg.Priorities)
	}
	if cfg.ToastDuration().Milliseconds() != 2000 || cfg.CelebrateDuration().Milliseconds() != 3000 {
		t.Errorf("durations: got %v, %v", cfg.ToastDuration(), cfg.CelebrateDuration())
	}
	if !cfg.Journal {
		t.Error("Journal: got false, want true")
	}
	if cfg.Filter() != task.FilterAll {
		t.Errorf("Filter: got %q", cfg.Filter())
	}
	if len(cfg.Files) != 0 {
		t.Errorf("Files: got %v, want none", cfg.Files)
	}
	for _, field := range Fields() {
		if cfg.Sources[field] != SourceDefault {
			t.Errorf("Sources[%s]: got %q, want default", field, cfg.Sources[field])
		}
	}
}

func TestLayering(t *testing.T) {
	home, work := isolate(t)
	writeFile(t, filepath.Join(home, ".taskboard", "taskboard.toml"), `
storage = "sqlite"
toast_ms = 1500
default_filter = "active"
`)
	writeFile(t, filepath.Join(work, "taskboard.toml"), `
toast_ms = 900
priorities = ["p3", "p2", "p1"]
default_priority = "p2"
`)
	t.Setenv("TASKBOARD_DEFAULT_FILTER", "completed")
	t.Setenv("TASKBOARD_JOURNAL", "false")
	fs := newFlags(t, "--storage", "memory", "--data-dir", filepath.Join(work, "data"))

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		field  string
		got    any
		want   any
		source Source
	}{
		{"storage", cfg.Storage, "memory", SourceFlag},
		{"data_dir", cfg.DataDir, filepath.Join(work, "data"), SourceFlag},
		{"toast_ms", cfg.ToastMS, 900, SourceProjFile},
		{"default_priority", cfg.DefaultPriority, "p2", SourceProjFile},
		{"default_filter", cfg.DefaultFilter, "completed", SourceEnv},
		{"journal", cfg.Journal, false, SourceEnv},
		{"celebrate_ms", cfg.CelebrateMS, DefaultCelebrateMS, SourceDefault},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.field, tt.got, tt.want)
		}
		if cfg.Sources[tt.field] != tt.source {
			t.Errorf("Sources[%s]: got %q, want %q", tt.field, cfg.Sources[tt.field], tt.source)
		}
	}
	if len(cfg.Files) != 2 {
		t.Errorf("Files: got %v, want user and project file", cfg.Files)
	}

	set, err := cfg.PrioritySet()
	if err != nil {
		t.Fatal(err)
	}
	if set.Default() != "p2" || set.String() != "p3|p2|p1" {
		t.Errorf("PrioritySet: got %s default %s", set, set.Default())
	}
}

func TestHiddenProjectFileAndXDG(t *testing.T) {
	home, work := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "taskboard", "taskboard.toml"), `storage_key = "fromxdg"`)
	writeFile(t, filepath.Join(work, ".taskboard.toml"), `log_level = "debug"`)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	// XDG lookup only applies on Linux/BSD; elsewhere the default stays.
	if cfg.StorageKey != "fromxdg" && cfg.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey: got %q", cfg.StorageKey)
	}
}

func TestExplicitConfigFile(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "custom.toml")
	writeFile(t, path, `celebrate_ms = 10`)

	cfg, err := Load(newFlags(t, "--config", path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CelebrateMS != 10 || cfg.Sources["celebrate_ms"] != SourceFile {
		t.Errorf("CelebrateMS: got %d from %q", cfg.CelebrateMS, cfg.Sources["celebrate_ms"])
	}

	if _, err := Load(newFlags(t, "--config", filepath.Join(work, "missing.toml"))); err == nil {
		t.Error("Load() with missing --config file: want error")
	}
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "taskboard.toml"), `storage = "sqlite"`)

	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q, want sqlite (flag default must not win)", cfg.Storage)
	}
}

func TestEnvPriorities(t *testing.T) {
	isolate(t)
	t.Setenv("TASKBOARD_PRIORITIES", " Later , Now ,, ")
	t.Setenv("TASKBOARD_DEFAULT_PRIORITY", "later")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.Priorities, []string{"Later", "Now"}) {
		t.Errorf("Priorities: got %v", cfg.Priorities)
	}
	set, _ := cfg.PrioritySet()
	if !set.Contains("now") {
		t.Errorf("PrioritySet %s missing now", set)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{"bad toml", `storage = `, nil, "project config file"},
		{"unknown storage", `storage = "s3"`, nil, "storage"},
		{"default priority missing", `default_priority = "urgent"`, nil, "priorities"},
		{"duplicate priorities", `priorities = ["a", "A"]
default_priority = "a"`, nil, "duplicate"},
		{"empty priorities", `priorities = []`, nil, "empty"},
		{"bad storage key", `storage_key = "a/b"`, nil, "storage_key"},
		{"dot storage key", ``, map[string]string{"TASKBOARD_STORAGE_KEY": ".."}, "storage_key"},
		{"bad filter", `default_filter = "done"`, nil, "default_filter"},
		{"bad toast", `toast_ms = 0`, nil, "toast_ms"},
		{"bad int env", ``, map[string]string{"TASKBOARD_TOAST_MS": "soon"}, "TASKBOARD_TOAST_MS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			writeFile(t, filepath.Join(work, "taskboard.toml"), tt.file)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TB_TEST_DIR", "/srv/tasks")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"$TB_TEST_DIR/x", "/srv/tasks/x"},
		{"/abs/path", "/abs/path"},
		{"rel/~", "rel/~"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(v) {
			t.Errorf("boolFromString(%q) = false", v)
		}
	}
	for _, v := range []string{"0", "false", "no", "maybe"} {
		if boolFromString(v) {
			t.Errorf("boolFromString(%q) = true", v)
		}
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := cfg.WriteTOML(&buf); err != nil {
		t.Fatal(err)
	}
	var back Config
	if _, err := toml.Decode(buf.String(), &back); err != nil {
		t.Fatalf("decode written TOML: %v", err)
	}
	if back.DataDir != cfg.DataDir || back.ToastMS != cfg.ToastMS || !slices.Equal(back.Priorities, cfg.Priorities) {
		t.Errorf("round trip: got %+v", back)
	}
	if strings.Contains(buf.String(), "Sources") || strings.Contains(buf.String(), "Files") {
		t.Error("internal fields written to TOML")
	}
}

func TestExampleConfigIsValid(t *testing.T) {
	isolate(t)
	cfg := &Config{}
	setDefaults(cfg)
	if _, err := toml.Decode(ExampleConfig(), cfg); err != nil {
		t.Fatalf("ExampleConfig does not parse: %v", err)
	}
	finalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		t.Errorf("ExampleConfig invalid: %v", err)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(dir) {
		if dir, err = os.Getwd(); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
