// Package config loads acscan's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the root runtime configuration.
type Config struct {
	Log   LogConfig   `json:"log" yaml:"log"`
	Scan  ScanConfig  `json:"scan" yaml:"scan"`
	Store StoreConfig `json:"store" yaml:"store"`
	Serve ServeConfig `json:"serve" yaml:"serve"`
}

// LogConfig controls the console and rotating file loggers.
type LogConfig struct {
	Level     string `json:"level" yaml:"level"`
	Console   bool   `json:"console" yaml:"console"`
	ToFile    bool   `json:"to_file" yaml:"to_file"`     // write to .acscan/log/acscan.log unless File is set
	File      string `json:"file" yaml:"file"`           // explicit log file; empty falls back to ToFile
	FileSize  int    `json:"file_size" yaml:"file_size"` // megabytes before rotation
	FileCount int    `json:"file_count" yaml:"file_count"`
	KeepDays  int    `json:"keep_days" yaml:"keep_days"`
}

// ScanConfig holds the defaults for scan, overridable by flags.
type ScanConfig struct {
	ContextWindow    int  `json:"context_window" yaml:"context_window"`
	CaseSensitive    bool `json:"case_sensitive" yaml:"case_sensitive"`
	Verify           bool `json:"verify" yaml:"verify"`
	Save             bool `json:"save" yaml:"save"`
	MatcherCacheSize int  `json:"matcher_cache_size" yaml:"matcher_cache_size"`
	Workers          int  `json:"workers" yaml:"workers"`
}

// StoreConfig configures scan history.
type StoreConfig struct {
	Path      string `json:"path" yaml:"path"` // empty means .acscan/acscan.db
	ListLimit int    `json:"list_limit" yaml:"list_limit"`
}

// ServeConfig configures the report server.
type ServeConfig struct {
	Port int `json:"port" yaml:"port"` // 0 derives a port from the project root
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:     "warn",
			Console:   true,
			FileSize:  10,
			FileCount: 3,
			KeepDays:  7,
		},
		Scan: ScanConfig{
			ContextWindow:    20,
			Save:             true,
			MatcherCacheSize: 16,
			Workers:          4,
		},
		Store: StoreConfig{
			ListLimit: 20,
		},
	}
}

// Load reads the configuration file from disk over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional loads path if it exists and returns the defaults otherwise.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.FileSize < 0 || c.Log.FileCount < 0 || c.Log.KeepDays < 0 {
		return errors.New("log rotation settings must not be negative")
	}
	if c.Scan.ContextWindow < 0 {
		return fmt.Errorf("scan.context_window must not be negative, got %d", c.Scan.ContextWindow)
	}
	if c.Scan.MatcherCacheSize <= 0 {
		return fmt.Errorf("scan.matcher_cache_size must be positive, got %d", c.Scan.MatcherCacheSize)
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive, got %d", c.Scan.Workers)
	}
	if c.Store.ListLimit < 0 {
		return fmt.Errorf("store.list_limit must not be negative, got %d", c.Store.ListLimit)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port out of range: %d", c.Serve.Port)
	}
	return nil
}

// FilePath returns the log file to write, or "" when file logging is off.
// An explicit File wins; otherwise ToFile selects fallback.
func (c LogConfig) FilePath(fallback string) string {
	if c.File != "" {
		return c.File
	}
	if c.ToFile {
		return fallback
	}
	return ""
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
