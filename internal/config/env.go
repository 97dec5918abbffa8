package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKBOARD_"

type envBinding struct {
	field string
	apply func(cfg *Config, v string) error
}

func stringEnv(field string, target func(*Config) *string) envBinding {
	return envBinding{field: field, apply: func(cfg *Config, v string) error {
		*target(cfg) = v
		return nil
	}}
}

func intEnv(field string, target func(*Config) *int) envBinding {
	return envBinding{field: field, apply: func(cfg *Config, v string) error {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not an integer: %q", v)
		}
		*target(cfg) = i
		return nil
	}}
}

func boolEnv(field string, target func(*Config) *bool) envBinding {
	return envBinding{field: field, apply: func(cfg *Config, v string) error {
		*target(cfg) = boolFromString(v)
		return nil
	}}
}

func envBindings() []envBinding {
	return []envBinding{
		stringEnv("data_dir", func(c *Config) *string { return &c.DataDir }),
		stringEnv("storage", func(c *Config) *string { return &c.Storage }),
		stringEnv("storage_key", func(c *Config) *string { return &c.StorageKey }),
		{field: "priorities", apply: func(c *Config, v string) error {
			c.Priorities = splitAndTrim(v, ",")
			return nil
		}},
		stringEnv("default_priority", func(c *Config) *string { return &c.DefaultPriority }),
		stringEnv("default_filter", func(c *Config) *string { return &c.DefaultFilter }),
		intEnv("toast_ms", func(c *Config) *int { return &c.ToastMS }),
		intEnv("celebrate_ms", func(c *Config) *int { return &c.CelebrateMS }),
		boolEnv("journal", func(c *Config) *bool { return &c.Journal }),
		stringEnv("log_level", func(c *Config) *string { return &c.LogLevel }),
		stringEnv("log_format", func(c *Config) *string { return &c.LogFormat }),
		boolEnv("log_timestamps", func(c *Config) *bool { return &c.LogTimestamps }),
		boolEnv("log_caller", func(c *Config) *bool { return &c.LogCaller }),
	}
}

// EnvName returns the environment variable for a TOML key.
func EnvName(field string) string {
	return EnvPrefix + strings.ToUpper(field)
}

// loadFromEnv overrides config from TASKBOARD_* environment variables.
func loadFromEnv(cfg *Config) error {
	for _, b := range envBindings() {
		name := EnvName(b.field)
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		cfg.Sources[b.field] = SourceEnv
	}
	return nil
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
