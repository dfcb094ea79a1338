// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the hooklog configuration. Every field has a working
// default; a missing config file is not an error.
type Config struct {
	// LogDir overrides the log root. When empty, logs live under
	// <project-dir>/hooks/logs.
	LogDir string `yaml:"log_dir"`

	// LogLevel sets the diagnostic logger level: debug, info, warn,
	// or error. The record path defaults to warn so hook invocations
	// stay quiet on stderr.
	LogLevel string `yaml:"log_level"`

	// Store configures the correlation store.
	Store StoreConfig `yaml:"store"`

	// Record configures log-record construction.
	Record RecordConfig `yaml:"record"`

	// Filter configures the optional record filter.
	Filter FilterConfig `yaml:"filter"`

	// Archive configures the archive and prune commands.
	Archive ArchiveConfig `yaml:"archive"`
}

// StoreConfig configures the correlation store.
type StoreConfig struct {
	// MaxRecords bounds the store size. Oldest records by
	// registration time are evicted past this bound. Default: 100.
	MaxRecords int `yaml:"max_records"`
}

// RecordConfig configures log-record construction.
type RecordConfig struct {
	// ResponseLimit caps embedded response text (assistant responses,
	// sub-agent responses) in characters. Default: 5000.
	ResponseLimit int `yaml:"response_limit"`
}

// FilterConfig configures the optional record filter.
type FilterConfig struct {
	// Expression is a CEL expression over string variables describing
	// the record (event, tool_name, session_id, bash_command, and the
	// rest of the eventfilter variable set). Records for which it
	// evaluates to false are not appended. Empty means keep
	// everything.
	Expression string `yaml:"expression"`
}

// ArchiveConfig configures the archive and prune commands.
type ArchiveConfig struct {
	// OlderThan is the default idle age before a session log is
	// archived, as a Go duration string. Default: 168h.
	OlderThan string `yaml:"older_than"`

	// Codec selects the archive compression: zstd or lz4.
	// Default: zstd.
	Codec string `yaml:"codec"`

	// Recipients are age public keys; when set, archives are
	// encrypted to all of them.
	Recipients []string `yaml:"recipients"`

	// PruneOlderThan is the default age before an archived file is
	// deleted by prune, as a Go duration string. Default: 720h.
	PruneOlderThan string `yaml:"prune_older_than"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Store: StoreConfig{
			MaxRecords: 100,
		},
		Record: RecordConfig{
			ResponseLimit: 5000,
		},
		Archive: ArchiveConfig{
			OlderThan:      "168h",
			Codec:          "zstd",
			PruneOlderThan: "720h",
		},
	}
}

// ProjectDir returns the project root the host runtime selected:
// $CLAUDE_PROJECT_DIR when set, else the working directory.
func ProjectDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// Load loads configuration for the given project directory. The file
// is $HOOKLOG_CONFIG when set, else <projectDir>/.claude/hooklog.yaml.
// A missing file yields the defaults; a present but broken file is an
// error.
func Load(projectDir string) (*Config, error) {
	path := os.Getenv("HOOKLOG_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectDir, ".claude", "hooklog.yaml")
	}

	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg.finish()
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg.finish()
	return cfg, nil
}

// LoadBestEffort loads configuration for the record path: any failure
// collapses to the defaults so a broken config file can never block
// the host runtime's event pipeline. The error is returned alongside
// the usable config so the caller can log it.
func LoadBestEffort(projectDir string) (*Config, error) {
	cfg, err := Load(projectDir)
	if err != nil {
		fallback := Default()
		fallback.finish()
		return fallback, err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		fallback := Default()
		fallback.finish()
		return fallback, validationErr
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific path. Used by commands
// that take a --config flag.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	cfg.finish()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// finish applies environment overrides and variable expansion after
// the file (or defaults) are in place.
func (c *Config) finish() {
	c.applyEnvironmentOverrides()
	c.expandVariables()
}

// applyEnvironmentOverrides lets the environment win over the file for
// the two settings an operator most often flips per-invocation.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv("HOOKLOG_LOG_DIR"); dir != "" {
		c.LogDir = dir
	}
	if level := os.Getenv("HOOKLOG_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields for portability.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":               os.Getenv("HOME"),
		"CLAUDE_PROJECT_DIR": os.Getenv("CLAUDE_PROJECT_DIR"),
	}
	c.LogDir = expandVars(c.LogDir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// ResolveLogDir returns the log root for the given project directory:
// the configured override when set, else <projectDir>/hooks/logs.
func (c *Config) ResolveLogDir(projectDir string) string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(projectDir, "hooks", "logs")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: %v", levels))
	}

	if c.Store.MaxRecords <= 0 {
		errs = append(errs, fmt.Errorf("store.max_records must be positive"))
	}

	if c.Record.ResponseLimit <= 0 {
		errs = append(errs, fmt.Errorf("record.response_limit must be positive"))
	}

	codecs := []string{"zstd", "lz4"}
	if !slices.Contains(codecs, c.Archive.Codec) {
		errs = append(errs, fmt.Errorf("archive.codec must be one of: %v", codecs))
	}

	if _, err := time.ParseDuration(c.Archive.OlderThan); err != nil {
		errs = append(errs, fmt.Errorf("archive.older_than: %w", err))
	}
	if _, err := time.ParseDuration(c.Archive.PruneOlderThan); err != nil {
		errs = append(errs, fmt.Errorf("archive.prune_older_than: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level returns the configured slog level. Unknown strings fall back
// to warn, matching the record path's quiet default.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
