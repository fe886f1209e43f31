// Package config loads the optional YAML settings file of the qcircuit CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"qcircuit/engine"
	"qcircuit/qasm"
)

// DefaultPath is the settings file looked up when --config is not given.
const DefaultPath = ".qcircuit.yaml"

// Config holds CLI settings. Command-line flags override every field.
type Config struct {
	// Shots is how many times run executes the program.
	Shots int `yaml:"shots"`
	// Seed makes measurement reproducible; 0 means unseeded.
	Seed uint64 `yaml:"seed"`
	// MaxLoopIterations caps each while loop; 0 removes the cap.
	MaxLoopIterations int `yaml:"max_loop_iterations"`
	// Dialect is the output dialect of fmt: "2.0" or "3.0".
	Dialect string `yaml:"dialect"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
	// Precision is the number of decimals printed for probabilities.
	Precision int `yaml:"precision"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Shots:             1,
		MaxLoopIterations: engine.DefaultMaxLoopIterations,
		Dialect:           qasm.V2.String(),
		LogLevel:          "warning",
		Precision:         4,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the settings to path as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
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

// Validate checks field ranges and names.
func (c *Config) Validate() error {
	if c.Shots < 1 {
		return fmt.Errorf("shots must be positive, got %d", c.Shots)
	}
	if c.MaxLoopIterations < 0 {
		return fmt.Errorf("max_loop_iterations must not be negative, got %d", c.MaxLoopIterations)
	}
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("precision must be in [0, 15], got %d", c.Precision)
	}
	if _, err := qasm.ParseDialect(c.Dialect); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// OutputDialect returns the configured dialect.
func (c *Config) OutputDialect() qasm.Dialect {
	d, _ := qasm.ParseDialect(c.Dialect)
	return d
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
