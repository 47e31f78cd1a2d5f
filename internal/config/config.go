package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duplicate handling policies accepted by solver.duplicates.
var ValidDuplicatePolicies = []string{"dedupe", "strict"}

// ValidLogFormats lists accepted logging.format values.
var ValidLogFormats = []string{"json", "console"}

// Config holds all nondiv configuration.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Batch   BatchConfig   `yaml:"batch"`
	History HistoryConfig `yaml:"history"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// SolverConfig configures input preparation.
type SolverConfig struct {
	Duplicates string `yaml:"duplicates"`  // dedupe, strict
	MaxModulus int    `yaml:"max_modulus"` // 0 = solver maximum
}

// BatchConfig configures the batch runner.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// HistoryConfig configures the run history database.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"` // record every solve
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	Color bool `yaml:"color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Duplicates: "dedupe",
			MaxModulus: 1 << 24,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
		History: HistoryConfig{
			Enabled:      false,
			DatabasePath: filepath.Join(".nondiv", "history.db"),
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		UI: UIConfig{
			Color: true,
		},
	}
}

// DefaultPath returns the config location inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".nondiv", "config.yaml")
}

// Load reads configuration from a YAML file.
// A missing file yields the defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NONDIV_DUPLICATES"); v != "" {
		c.Solver.Duplicates = v
	}
	if v := os.Getenv("NONDIV_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Concurrency = n
		}
	}
	if v := os.Getenv("NONDIV_HISTORY_DB"); v != "" {
		c.History.DatabasePath = v
	}
	if v := os.Getenv("NONDIV_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	// https://no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.Color = false
	}
}

// GetDebounce returns the watcher debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	if c.Watch.Debounce == "" {
		return 200 * time.Millisecond
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// HistoryPath resolves the history database path against workspace.
func (c *Config) HistoryPath(workspace string) string {
	if filepath.IsAbs(c.History.DatabasePath) {
		return c.History.DatabasePath
	}
	return filepath.Join(workspace, c.History.DatabasePath)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidDuplicatePolicies, c.Solver.Duplicates) {
		return fmt.Errorf("invalid duplicates policy: %s (valid: %v)", c.Solver.Duplicates, ValidDuplicatePolicies)
	}
	if c.Solver.MaxModulus < 0 {
		return fmt.Errorf("invalid max_modulus: %d (must be >= 0)", c.Solver.MaxModulus)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("invalid batch concurrency: %d (must be >= 1)", c.Batch.Concurrency)
	}
	if c.Watch.Debounce != "" {
		d, err := time.ParseDuration(c.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid watch debounce %q: must not be negative", c.Watch.Debounce)
		}
	}
	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history enabled but database_path is empty")
	}
	return c.Logging.Validate()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
