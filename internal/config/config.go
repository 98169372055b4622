package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"listingview/internal/domain"
)

// FileName is the config file looked up in the user config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version  int               `toml:"version"`
	Endpoint string            `toml:"endpoint"`
	Headers  map[string]string `toml:"headers,omitempty"`
	Listing  ListingSettings   `toml:"listing"`
	UI       UISettings        `toml:"ui"`
	Log      LogSettings       `toml:"log"`
	Metrics  MetricsSettings   `toml:"metrics"`
}

// ListingSettings controls the coordinator
type ListingSettings struct {
	ItemsPerPage      int     `toml:"items_per_page"`
	Mode              string  `toml:"mode"`
	DefaultSort       string  `toml:"default_sort"`
	DebounceMS        int     `toml:"debounce_ms"`
	Prefetch          bool    `toml:"prefetch"`
	PrefetchPerSecond float64 `toml:"prefetch_per_second"`
	URLSync           bool    `toml:"url_sync"`
	RequestTimeoutMS  int     `toml:"request_timeout_ms"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	MaxVisiblePages int      `toml:"max_visible_pages"`
	ShowJumper      bool     `toml:"show_jumper"`
	ShowInfo        bool     `toml:"show_info"`
	SortOptions     []string `toml:"sort_options"`
}

// LogSettings controls the log file
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsSettings controls the prometheus endpoint; empty Addr disables it
type MetricsSettings struct {
	Addr string `toml:"addr"`
}

// Debounce returns the debounce window as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Listing.DebounceMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout; zero means none
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Listing.RequestTimeoutMS) * time.Millisecond
}

// Mode returns the configured pagination mode
func (c *Config) Mode() domain.Mode {
	m, _ := domain.ParseMode(c.Listing.Mode)
	return m
}

// Validate reports settings that cannot be used
func (c *Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is required"))
	}
	if c.Listing.ItemsPerPage <= 0 {
		errs = append(errs, fmt.Errorf("listing.items_per_page must be positive, got %d", c.Listing.ItemsPerPage))
	}
	if _, ok := domain.ParseMode(c.Listing.Mode); !ok {
		errs = append(errs, fmt.Errorf("listing.mode %q is not one of numbered, loadmore, infinite", c.Listing.Mode))
	}
	if c.Listing.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("listing.debounce_ms must not be negative, got %d", c.Listing.DebounceMS))
	}
	if c.UI.MaxVisiblePages < 5 {
		errs = append(errs, fmt.Errorf("ui.max_visible_pages must be at least 5, got %d", c.UI.MaxVisiblePages))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service rooted in the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return &configService{filePath: filepath.Join(configDir, "listingview", FileName)}
}

// NewConfigServiceAt creates a config service bound to an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Path returns the file Load and Save use
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, falling back to defaults if the file is missing
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// Keys absent from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Endpoint: "http://localhost:8000/api/products",
		Headers:  make(map[string]string),
		Listing: ListingSettings{
			ItemsPerPage:      domain.DefaultItemsPerPage,
			Mode:              string(domain.ModeNumbered),
			DefaultSort:       domain.DefaultSort,
			DebounceMS:        300,
			Prefetch:          true,
			PrefetchPerSecond: 4,
			URLSync:           true,
			RequestTimeoutMS:  0,
		},
		UI: UISettings{
			MaxVisiblePages: 7,
			ShowJumper:      true,
			ShowInfo:        true,
			SortOptions:     []string{"relevance", "price_asc", "price_desc", "newest", "rating"},
		},
		Log: LogSettings{
			File:  "listingview.log",
			Level: "info",
		},
	}
}
