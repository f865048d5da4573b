package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Upper bounds applied by [Config.Validate].
const (
	MaxWorkers         = 10 // concurrent channel retrievals
	MaxFeedEntries     = 3
	MaxFallbackEntries = 5
	MaxTimeoutSeconds  = 15
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Fetch   FetchConfig   `toml:"fetch"`
	Tools   ToolsConfig   `toml:"tools"`
	Player  PlayerConfig  `toml:"player"`
	Gist    GistConfig    `toml:"gist"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig contains the JSON document locations.
type StorageConfig struct {
	CatalogPath string `toml:"catalog_path"`
	HistoryPath string `toml:"history_path"`
}

// FetchConfig contains video retrieval settings.
type FetchConfig struct {
	Workers         int     `toml:"workers"`
	FeedEntries     int     `toml:"feed_entries"`
	FallbackEntries int     `toml:"fallback_entries"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
	RateLimit       float64 `toml:"rate_limit"`
	FeedURL         string  `toml:"feed_url"`
	FilterShorts    bool    `toml:"filter_shorts"`
}

// Timeout returns the bounded wait for a single external call.
func (f FetchConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ToolsConfig contains external executable paths.
type ToolsConfig struct {
	YtdlpPath string `toml:"ytdlp_path"`
	GHPath    string `toml:"gh_path"`
}

// PlayerConfig contains media player settings.
type PlayerConfig struct {
	Path string `toml:"path"`
}

// GistConfig contains Learning Log sync settings.
type GistConfig struct {
	Filename    string `toml:"filename"`
	Description string `toml:"description"`
	Public      bool   `toml:"public"`
	Token       string `toml:"token"`
	APIURL      string `toml:"api_url"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults of the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges. Workers, entry counts and the timeout are clamped to their caps.
func (c *Config) Validate() error {
	if c.Storage.CatalogPath == "" || c.Storage.HistoryPath == "" {
		return fmt.Errorf("%w: storage paths must be set", ErrInvalidConfig)
	}
	if c.Fetch.Workers <= 0 || c.Fetch.Workers > MaxWorkers {
		c.Fetch.Workers = MaxWorkers
	}
	if c.Fetch.FeedEntries <= 0 {
		return fmt.Errorf("%w: fetch.feed_entries must be positive", ErrInvalidConfig)
	}
	if c.Fetch.FallbackEntries <= 0 {
		return fmt.Errorf("%w: fetch.fallback_entries must be positive", ErrInvalidConfig)
	}
	c.Fetch.FeedEntries = min(c.Fetch.FeedEntries, MaxFeedEntries)
	c.Fetch.FallbackEntries = min(c.Fetch.FallbackEntries, MaxFallbackEntries)
	if c.Fetch.TimeoutSeconds > MaxTimeoutSeconds {
		c.Fetch.TimeoutSeconds = MaxTimeoutSeconds
	}
	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("%w: fetch.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
