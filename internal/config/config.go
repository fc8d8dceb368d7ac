// Package config loads the simulator configuration from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Batch      BatchConfig      `toml:"batch"`
	Library    LibraryConfig    `toml:"library"`
	Logging    LoggingConfig    `toml:"logging"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// SimulationConfig contains the parameters of a single run
type SimulationConfig struct {
	domain.ShuffleConfig

	// Songs is the size of the 1..Songs item set used when no library is configured
	Songs int `toml:"songs"`

	// Seed makes runs reproducible; 0 draws a fresh seed per invocation
	Seed uint64 `toml:"seed"`
}

// BatchConfig contains configuration for repeated independent runs
type BatchConfig struct {
	Runs    int `toml:"runs"`
	Workers int `toml:"workers"`
}

// LibraryConfig points the simulator at an audio library instead of 1..Songs
type LibraryConfig struct {
	Path       string   `toml:"path"`
	Extensions []string `toml:"extensions"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig contains metrics export configuration
type MetricsConfig struct {
	// Textfile receives the Prometheus text exposition after a command, if set
	Textfile string `toml:"textfile"`
}

// DefaultConfig returns a configuration with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			ShuffleConfig: domain.DefaultShuffleConfig(),
			Songs:         10,
		},
		Batch: BatchConfig{
			Runs:    100,
			Workers: runtime.NumCPU(),
		},
		Library: LibraryConfig{
			Extensions: slices.Clone(domain.DefaultExtensions),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a TOML file.
// An empty path yields the defaults; a missing file is created with the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, cfg.Validate()
	}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads an optional .env file and applies SHUFFLEPLAY_LOG_LEVEL.
// A missing .env file is not an error; an unknown level in the variable is ignored.
func (c *Config) LoadEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	if level, ok := logger.LevelFromEnv(); ok {
		c.Logging.Level = strings.ToLower(level.String())
	}
	return nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# shuffleplay configuration
# [simulation] holds the recycle-bin parameters; songs is used when [library] path is empty.
# seed = 0 draws a fresh seed on every invocation.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Simulation.ShuffleConfig.Validate(); err != nil {
		return err
	}
	if c.Library.Path == "" && c.Simulation.Songs < 1 {
		return domain.NewValidationError("songs", c.Simulation.Songs, "must be at least 1 when no library path is set")
	}

	if c.Batch.Runs < 1 {
		return domain.NewValidationError("batch.runs", c.Batch.Runs, "must be at least 1")
	}
	if c.Batch.Workers < 1 {
		return domain.NewValidationError("batch.workers", c.Batch.Workers, "must be at least 1")
	}

	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return domain.NewValidationError("logging.level", c.Logging.Level, "must be debug, info, warn, or error")
	}
	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return domain.NewValidationError("logging.format", c.Logging.Format, "must be text or json")
	}

	return nil
}

// LoggerConfig applies the logging section over logger.DefaultConfig.
// Empty fields keep the logger defaults.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	if level, ok := logger.ParseLevel(c.Logging.Level); ok {
		cfg.Level = level
	}
	if c.Logging.Format != "" {
		cfg.Format = c.Logging.Format
	}
	return cfg
}
