// Package config loads hpcpy settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds user-level settings. Every field has a working default, so a
// missing config file is not an error.
type Config struct {
	// Scheduler forces a variant ("pbs", "slurm", "mock") instead of PATH
	// detection. Empty means detect.
	Scheduler string `yaml:"scheduler"`

	// Timeout bounds each scheduler command, as a Go duration string
	// ("30s", "2m"). Empty means no timeout.
	Timeout string `yaml:"timeout"`

	// ScriptDir is where rendered job scripts are written.
	ScriptDir string `yaml:"script_dir"`

	// HistoryDB is the path of the local submission ledger.
	HistoryDB string `yaml:"history_db"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		HistoryDB: filepath.Join(hpcpyDir(), "history.db"),
	}
}

// Load reads the config file at path, falling back to $HPCPY_CONFIG and then
// ~/.hpcpy/config.yaml when path is empty. A nonexistent file yields
// Default().
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("HPCPY_CONFIG")
	}
	if path == "" {
		path = filepath.Join(hpcpyDir(), "config.yaml")
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ExecTimeout parses the Timeout field; empty or unparsable values mean no
// timeout.
func (c Config) ExecTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

func hpcpyDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".hpcpy")
	}
	return filepath.Join(home, ".hpcpy")
}
