// Package config provides configuration management for the slip39 CLI
// and its library defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/slip39/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Generate GenerateConfig `yaml:"generate"`
	Recovery RecoveryConfig `yaml:"recovery"`
	Backup   BackupConfig   `yaml:"backup"`
	Security SecurityConfig `yaml:"security"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Warnings accumulates non-fatal problems found while applying
	// environment overrides, surfaced by the CLI at invocation time.
	Warnings []string `yaml:"-"`
}

// GenerateConfig defines defaults used by mnemonic generation when a
// caller does not specify them explicitly.
type GenerateConfig struct {
	DefaultExtendable        bool `yaml:"default_extendable"`
	DefaultIterationExponent int  `yaml:"default_iteration_exponent"`
}

// RecoveryConfig defines the token-bucket limit guarding AddShare calls
// during interactive recovery.
type RecoveryConfig struct {
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
	RateLimitBurst     int     `yaml:"rate_limit_burst"`
}

// BackupConfig defines defaults for encrypted bundle export/import.
type BackupConfig struct {
	IdentityFile string `yaml:"identity_file"`
}

// SecurityConfig defines security-sensitive library behavior.
type SecurityConfig struct {
	MemoryLock bool `yaml:"memory_lock"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file, starting from
// Defaults() so an incomplete file still yields a usable Config.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the configured home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetSecurity returns the security configuration.
func (c *Config) GetSecurity() SecurityConfig {
	return c.Security
}

// GetRecovery returns the interactive recovery rate-limit configuration.
func (c *Config) GetRecovery() RecoveryConfig {
	return c.Recovery
}

// DefaultHome returns the default slip39 home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slip39"
	}
	return filepath.Join(home, ".slip39")
}
