package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskboard/taskboard.toml or OS-specific config dir)
// 3. Project config file (taskboard.toml or .taskboard.toml in current directory)
// 4. Explicit config file (--config)
// 5. Environment variables
// 6. CLI flags
//
// fs may be nil. The result is validated.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Explicit config file must exist
	path, err := explicitConfigFile(fs)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadConfigFile(cfg, expandPath(path), SourceFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// 5. Override from environment
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 6. Flags override everything
	if err := applyFlags(cfg, fs); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadConfigFile decodes TOML from path over cfg and records which keys the
// file defined.
func loadConfigFile(cfg *Config, path string, source Source) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	for _, field := range Fields() {
		if md.IsDefined(field) {
			cfg.Sources[field] = source
		}
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig normalizes derived values.
func finalizeConfig(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)
}

// WriteTOML writes the effective configuration as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
