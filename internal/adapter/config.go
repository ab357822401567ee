package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Storage   StorageConfig   `mapstructure:"storage"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CatalogConfig holds remote movie catalog configuration
type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	ImageBaseURL string        `mapstructure:"image_base_url"` // Poster URL prefix
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AnalyticsConfig holds analytics backend configuration
type AnalyticsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"` // Sync cycle attempts after the first
}

// StorageConfig holds backing store configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // Empty = memory only
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultView string   `mapstructure:"default_view"` // "discover", "likes" or "stats"
	Browser     string   `mapstructure:"browser"`      // Empty = system default
	BrowserArgs []string `mapstructure:"browser_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      15 * time.Second,
		},
		Analytics: AnalyticsConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
			Retries: 2,
		},
		Storage: StorageConfig{
			Path: defaultDataPath(),
		},
		UI: UIConfig{
			DefaultView: "discover",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "filmfinder", "filmfinder.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "filmfinder", "filmfinder.log")
	}
}

// defaultDataPath returns the default backing store path for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "filmfinder", "filmfinder.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "filmfinder", "filmfinder.db")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "filmfinder")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "filmfinder")
	}
}

// LoadConfig loads configuration from file and environment.
// An empty file searches the default config directory and the working directory.
func LoadConfig(file string) (*Config, error) {
	v := newViper()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(file != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// newViper returns a viper instance seeded with defaults and env overrides
// (FILMFINDER_CATALOG_API_KEY, FILMFINDER_ANALYTICS_BASE_URL, ...).
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("catalog.base_url", def.Catalog.BaseURL)
	v.SetDefault("catalog.api_key", def.Catalog.APIKey)
	v.SetDefault("catalog.image_base_url", def.Catalog.ImageBaseURL)
	v.SetDefault("catalog.timeout", def.Catalog.Timeout)
	v.SetDefault("analytics.base_url", def.Analytics.BaseURL)
	v.SetDefault("analytics.timeout", def.Analytics.Timeout)
	v.SetDefault("analytics.retries", def.Analytics.Retries)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("ui.default_view", def.UI.DefaultView)
	v.SetDefault("ui.browser", def.UI.Browser)
	v.SetDefault("ui.browser_args", def.UI.BrowserArgs)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)

	// Environment variable overrides
	v.SetEnvPrefix("FILMFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SaveConfig writes cfg to file (the default config location when empty)
func SaveConfig(cfg *Config, file string) error {
	if file == "" {
		file = filepath.Join(DefaultConfigDir(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.api_key", cfg.Catalog.APIKey)
	v.Set("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.Set("catalog.timeout", cfg.Catalog.Timeout.String())

	v.Set("analytics.base_url", cfg.Analytics.BaseURL)
	v.Set("analytics.timeout", cfg.Analytics.Timeout.String())
	v.Set("analytics.retries", cfg.Analytics.Retries)

	v.Set("storage.path", cfg.Storage.Path)

	v.Set("ui.default_view", cfg.UI.DefaultView)
	v.Set("ui.browser", cfg.UI.Browser)
	v.Set("ui.browser_args", cfg.UI.BrowserArgs)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HasAPIKey returns true if the catalog API key is set
func (c *Config) HasAPIKey() bool {
	return c.Catalog.APIKey != ""
}
