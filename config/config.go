// Package config loads the tlg configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	JSONL  = "jsonl"
	SQLite = "sqlite"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "tradelog.yaml"

// Config holds all application configuration.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	Storage    string `yaml:"storage"`
	SQLitePath string `yaml:"sqlite_path"`
	Currency   string `yaml:"currency"`
	// ChainMonths starts every month with the final capital of the previous one.
	ChainMonths bool   `yaml:"chain_months"`
	TradesPath  string `yaml:"trades_path"`
	Log         struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file and a .env file, then applies environment variable
// overrides. Missing files are not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	// .env never overrides the actual environment
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	// Environment variable overrides
	if v := os.Getenv("TLG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TLG_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("TLG_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("TLG_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("TLG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if cfg.Storage == "" {
		cfg.Storage = JSONL
	}
	if cfg.Currency == "" {
		cfg.Currency = tradelog.DefaultCurrency
	}
	if cfg.TradesPath == "" {
		cfg.TradesPath = tradelog.DefaultTradesPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}

	return cfg, cfg.Validate()
}

// Validate checks that all fields hold supported values.
func (c *Config) Validate() error {
	switch c.Storage {
	case JSONL, SQLite:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", JSONL, SQLite, c.Storage)
	}
	if err := tradelog.ValidateCurrency(c.Currency); err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	return nil
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Pretty: c.Log.Pretty}
}

// DBPath returns the SQLite database path, tradelog.db in the data folder by default.
func (c *Config) DBPath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "tradelog.db")
}

// Policy returns the starting capital policy.
func (c *Config) Policy() tradelog.ChainPolicy {
	if c.ChainMonths {
		return tradelog.ChainFromPreviousMonth
	}
	return tradelog.IndependentAnchors
}
