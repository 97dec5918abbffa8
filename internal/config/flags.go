package config

import (
	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	FlagConfig     = "config"
	FlagDataDir    = "data-dir"
	FlagStorage    = "storage"
	FlagStorageKey = "storage-key"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
)

type flagBinding struct {
	name   string
	field  string
	target func(*Config) *string
}

func flagBindings() []flagBinding {
	return []flagBinding{
		{FlagDataDir, "data_dir", func(c *Config) *string { return &c.DataDir }},
		{FlagStorage, "storage", func(c *Config) *string { return &c.Storage }},
		{FlagStorageKey, "storage_key", func(c *Config) *string { return &c.StorageKey }},
		{FlagLogLevel, "log_level", func(c *Config) *string { return &c.LogLevel }},
		{FlagLogFormat, "log_format", func(c *Config) *string { return &c.LogFormat }},
	}
}

// RegisterFlags defines the configuration flags on fs. Defaults are shown
// for help output only; Load applies a flag only when it was set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to an explicit config file")
	fs.String(FlagDataDir, DefaultDataDir, "Directory holding tasks and journals")
	fs.String(FlagStorage, DefaultStorage, "Storage backend: file, sqlite or memory")
	fs.String(FlagStorageKey, DefaultStorageKey, "Name of the storage slot")
	fs.String(FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String(FlagLogFormat, DefaultLogFormat, "Log format: text, json, logfmt")
}

// explicitConfigFile returns the --config value, if set.
func explicitConfigFile(fs *pflag.FlagSet) (string, error) {
	if fs == nil || fs.Lookup(FlagConfig) == nil || !fs.Changed(FlagConfig) {
		return "", nil
	}
	return fs.GetString(FlagConfig)
}

// applyFlags overrides config from flags the user set.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for _, b := range flagBindings() {
		if fs.Lookup(b.name) == nil || !fs.Changed(b.name) {
			continue
		}
		v, err := fs.GetString(b.name)
		if err != nil {
			return err
		}
		*b.target(cfg) = v
		cfg.Sources[b.field] = SourceFlag
	}
	return nil
}
