package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/task"
)

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceFile     Source = "config file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Default values.
const (
	DefaultDataDir         = "~/.taskboard"
	DefaultStorage         = storage.KindFile
	DefaultStorageKey      = "taskManagerTasks"
	DefaultPriority        = "medium"
	DefaultFilter          = "all"
	DefaultToastMS         = 2000
	DefaultCelebrateMS     = 3000
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	journalDirName         = "journal"
	defaultAppName         = "taskboard"
	defaultConfigFileName  = defaultAppName + ".toml"
	defaultHiddenFileName  = "." + defaultConfigFileName
	defaultUserConfigDir   = "." + defaultAppName
)

// DefaultPriorities returns the built-in priority labels.
func DefaultPriorities() []string {
	return []string{"low", "medium", "high"}
}

// Config holds the full configuration for taskboard.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	Storage    string `toml:"storage"`
	StorageKey string `toml:"storage_key"`

	// Tasks
	Priorities      []string `toml:"priorities"`
	DefaultPriority string   `toml:"default_priority"`
	DefaultFilter   string   `toml:"default_filter"`

	// Terminal UI timings in milliseconds
	ToastMS     int `toml:"toast_ms"`
	CelebrateMS int `toml:"celebrate_ms"`

	// Journal enables the per-run JSONL event journal.
	Journal bool `toml:"journal"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Files lists the config files applied, in load order.
	Files []string `toml:"-"`

	// Sources maps TOML keys to the layer that last set them.
	Sources map[string]Source `toml:"-"`
}

// Fields returns the configurable TOML keys in display order.
func Fields() []string {
	return []string{
		"data_dir",
		"storage",
		"storage_key",
		"priorities",
		"default_priority",
		"default_filter",
		"toast_ms",
		"celebrate_ms",
		"journal",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Storage = DefaultStorage
	cfg.StorageKey = DefaultStorageKey
	cfg.Priorities = DefaultPriorities()
	cfg.DefaultPriority = DefaultPriority
	cfg.DefaultFilter = DefaultFilter
	cfg.ToastMS = DefaultToastMS
	cfg.CelebrateMS = DefaultCelebrateMS
	cfg.Journal = true
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat

	cfg.Sources = make(map[string]Source, len(Fields()))
	for _, field := range Fields() {
		cfg.Sources[field] = SourceDefault
	}
}

// Validate checks that the config describes a usable store.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if !slices.Contains(storage.Kinds(), c.Storage) {
		return fmt.Errorf("storage %q must be one of: %s", c.Storage, strings.Join(storage.Kinds(), ", "))
	}
	if err := storage.ValidateKey(c.StorageKey); err != nil {
		return fmt.Errorf("storage_key: %w", err)
	}
	if _, err := c.PrioritySet(); err != nil {
		return err
	}
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if c.ToastMS <= 0 {
		return fmt.Errorf("toast_ms must be positive, got %d", c.ToastMS)
	}
	if c.CelebrateMS <= 0 {
		return fmt.Errorf("celebrate_ms must be positive, got %d", c.CelebrateMS)
	}
	return nil
}

// PrioritySet builds the configured priority labels.
func (c *Config) PrioritySet() (task.PrioritySet, error) {
	set, err := task.NewPrioritySet(c.Priorities, c.DefaultPriority)
	if err != nil {
		return task.PrioritySet{}, fmt.Errorf("priorities: %w", err)
	}
	return set, nil
}

// Filter returns the initial view filter, falling back to all.
func (c *Config) Filter() task.Filter {
	f, err := task.ParseFilter(c.DefaultFilter)
	if err != nil {
		return task.FilterAll
	}
	return f
}

// ToastDuration is how long transient messages stay visible.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastMS) * time.Millisecond
}

// CelebrateDuration is how long the all-complete celebration stays visible.
func (c *Config) CelebrateDuration() time.Duration {
	return time.Duration(c.CelebrateMS) * time.Millisecond
}

// JournalDir is where per-run event journals are written.
func (c *Config) JournalDir() string {
	return filepath.Join(c.DataDir, journalDirName)
}
