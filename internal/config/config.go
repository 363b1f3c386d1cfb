// Package config loads deckforge settings from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Scryfall  ScryfallConfig  `toml:"scryfall"`
	LLM       LLMConfig       `toml:"llm"`
	Translate TranslateConfig `toml:"translate"`
	Purchase  PurchaseConfig  `toml:"purchase"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "60s"
}

// StorageConfig contains deck storage settings.
type StorageConfig struct {
	// DBPath is the SQLite file. Empty or ":memory:" keeps decks in memory.
	DBPath string `toml:"db_path"`
	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	Driver string `toml:"driver"`
	// BackupInterval schedules backups while serving; "0s" disables them.
	BackupInterval string `toml:"backup_interval"`
	// BackupDir defaults to backups/ next to the database.
	BackupDir string `toml:"backup_dir"`
}

// ScryfallConfig contains card API settings.
type ScryfallConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit string `toml:"rate_limit"` // minimum delay between requests
}

// LLMConfig selects the language model used for query translation and deck
// analysis. APIKey is never written back to disk.
type LLMConfig struct {
	Provider string `toml:"provider"` // ollama, openai, gemini or none
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"-"`
	Timeout  string `toml:"timeout"`
}

// TranslateConfig contains natural-language search settings.
type TranslateConfig struct {
	CacheTTL string `toml:"cache_ttl"` // "0s" disables the cache
}

// PurchaseConfig contains storefront settings.
type PurchaseConfig struct {
	AffiliateID string `toml:"affiliate_id"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
			RequestTimeout: "60s",
		},
		Storage: StorageConfig{
			DBPath:         defaultDBPath(),
			Driver:         "sqlite",
			BackupInterval: "0s",
		},
		Scryfall: ScryfallConfig{
			BaseURL:   "https://api.scryfall.com",
			UserAgent: "DeckForge/1.0",
			RateLimit: "100ms",
		},
		LLM: LLMConfig{
			Provider: "none",
			Timeout:  "60s",
		},
		Translate: TranslateConfig{
			CacheTTL: "1h",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the deckforge directory under the user's home.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deckforge"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func defaultDBPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "deckforge.db")
}

// Load reads the config at the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
// Keys absent from the file keep their default values. Environment
// overrides are applied before validation.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment. lookup is normally
// os.LookupEnv.
//
// Provider keys are read from OPENAI_API_KEY or GEMINI_API_KEY according to
// the selected provider; DECKFORGE_LLM_API_KEY wins over both.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DECKFORGE_HOST", &c.Server.Host)
	if v, ok := lookup("DECKFORGE_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DECKFORGE_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	str("DECKFORGE_DB_PATH", &c.Storage.DBPath)
	str("DECKFORGE_SCRYFALL_URL", &c.Scryfall.BaseURL)
	str("DECKFORGE_LLM_PROVIDER", &c.LLM.Provider)
	str("DECKFORGE_LLM_MODEL", &c.LLM.Model)
	str("DECKFORGE_LLM_BASE_URL", &c.LLM.BaseURL)

	switch strings.ToLower(c.LLM.Provider) {
	case "openai":
		str("OPENAI_API_KEY", &c.LLM.APIKey)
	case "gemini":
		str("GEMINI_API_KEY", &c.LLM.APIKey)
	}
	str("DECKFORGE_LLM_API_KEY", &c.LLM.APIKey)

	str("DECKFORGE_AFFILIATE_ID", &c.Purchase.AffiliateID)
	str("DECKFORGE_LOG_LEVEL", &c.Log.Level)
	str("DECKFORGE_LOG_FORMAT", &c.Log.Format)
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"server request timeout", c.Server.RequestTimeout},
		{"scryfall rate limit", c.Scryfall.RateLimit},
		{"llm timeout", c.LLM.Timeout},
		{"translate cache TTL", c.Translate.CacheTTL},
		{"storage backup interval", c.Storage.BackupInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %s", d.name, d.value)
		}
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "", "none", "ollama", "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Storage.Driver {
	case "", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// InMemory reports whether decks are kept in memory only.
func (c *Config) InMemory() bool {
	return c.Storage.DBPath == "" || c.Storage.DBPath == ":memory:"
}

// GetRequestTimeout returns the server request timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	return mustDuration(c.Server.RequestTimeout)
}

// GetRateLimit returns the Scryfall request spacing as a duration.
func (c *Config) GetRateLimit() time.Duration {
	return mustDuration(c.Scryfall.RateLimit)
}

// GetLLMTimeout returns the model request timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return mustDuration(c.LLM.Timeout)
}

// GetBackupInterval returns the scheduled backup interval; zero disables it.
func (c *Config) GetBackupInterval() time.Duration {
	return mustDuration(c.Storage.BackupInterval)
}

// GetCacheTTL returns the translation cache TTL as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	return mustDuration(c.Translate.CacheTTL)
}

// mustDuration parses a value already checked by Validate. Invalid input
// yields zero.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
