package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"bookstats/internal/domain"
	"bookstats/internal/eventbus"
)

const (
	// DefaultBaseURL is the Google Books API endpoint
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	// DefaultQuery is fetched once at startup
	DefaultQuery = "popular books"
	// DefaultMaxResults is the result cap sent with every request
	DefaultMaxResults = 40
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version" yaml:"version"`
	API     APISettings     `toml:"api" yaml:"api"`
	Search  SearchSettings  `toml:"search" yaml:"search"`
	UI      UISettings      `toml:"ui" yaml:"ui"`
	Logging LoggingSettings `toml:"logging" yaml:"logging"`
	Metrics MetricsSettings `toml:"metrics" yaml:"metrics"`
}

// APISettings configures the book lookup service
type APISettings struct {
	BaseURL           string  `toml:"base_url" yaml:"base_url"`
	APIKey            string  `toml:"api_key,omitempty" yaml:"api_key,omitempty"`
	MaxResults        int     `toml:"max_results" yaml:"max_results"`
	TimeoutMS         int     `toml:"timeout_ms" yaml:"timeout_ms"`
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `toml:"burst" yaml:"burst"`
}

// SearchSettings configures the search box
type SearchSettings struct {
	DefaultQuery string `toml:"default_query" yaml:"default_query"`
	DebounceMS   int    `toml:"debounce_ms" yaml:"debounce_ms"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	DefaultSort       string `toml:"default_sort" yaml:"default_sort"`
	DefaultDirection  string `toml:"default_direction" yaml:"default_direction"`
	Locale            string `toml:"locale" yaml:"locale"`
	LegacyRatingOrder bool   `toml:"legacy_rating_order" yaml:"legacy_rating_order"`
}

// LoggingSettings configures the log sink
type LoggingSettings struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// MetricsSettings configures the optional Prometheus endpoint
type MetricsSettings struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutMS) * time.Millisecond
}

// Debounce returns the delay between the last keystroke and the search
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// SortKey returns the parsed default sort key
func (c *Config) SortKey() domain.SortKey {
	k, _ := domain.ParseSortKey(c.UI.DefaultSort)
	return k
}

// SortDirection returns the parsed default sort direction
func (c *Config) SortDirection() domain.SortDirection {
	d, _ := domain.ParseSortDirection(c.UI.DefaultDirection)
	return d
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.API.MaxResults <= 0 {
		return fmt.Errorf("api.max_results must be positive, got %d", c.API.MaxResults)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if _, err := domain.ParseSortKey(c.UI.DefaultSort); err != nil {
		return fmt.Errorf("ui.default_sort: %w", err)
	}
	if _, err := domain.ParseSortDirection(c.UI.DefaultDirection); err != nil {
		return fmt.Errorf("ui.default_direction: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the process environment.
// A missing API key is not an error; the service rejects such requests itself.
func (c *Config) ApplyEnv() {
	if key := os.Getenv("GOOGLE_BOOKS_API_KEY"); key != "" {
		c.API.APIKey = key
	} else if key := os.Getenv("REACT_APP_GOOGLE_BOOKS_API_KEY"); key != "" {
		c.API.APIKey = key
	}
	if url := os.Getenv("BOOKSTATS_BASE_URL"); url != "" {
		c.API.BaseURL = url
	}
	if level := os.Getenv("BOOKSTATS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
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
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service rooted at the user config directory
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

// DefaultPath returns $XDG_CONFIG_HOME/bookstats/config.toml or a fallback
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "bookstats", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when absent
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cs.filePath, err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path.
// Missing keys keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = toml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:           DefaultBaseURL,
			MaxResults:        DefaultMaxResults,
			TimeoutMS:         10000,
			RequestsPerSecond: 5,
			Burst:             2,
		},
		Search: SearchSettings{
			DefaultQuery: DefaultQuery,
			DebounceMS:   300,
		},
		UI: UISettings{
			DefaultSort:      "title",
			DefaultDirection: "ascending",
			Locale:           "en",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
			File:   "bookstats.log",
		},
	}
}
