package config

import "fmt"

var validLevels = []string{"debug", "info", "warn", "error"}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, console
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if c.Level != "" && !contains(validLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, validLevels)
	}
	if c.Format != "" && !contains(ValidLogFormats, c.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Format, ValidLogFormats)
	}
	return nil
}
