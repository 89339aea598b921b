package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Layout selects how the coin list is drawn
type Layout string

const (
	LayoutAuto  Layout = "auto"  // pick by terminal width
	LayoutTable Layout = "table" // wide page-jump view
	LayoutCards Layout = "cards" // narrow accumulating view
)

const appName = "coinboard"

// Config holds all application configuration
type Config struct {
	Market  MarketConfig  `mapstructure:"market"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MarketConfig holds market API configuration
type MarketConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"` // CoinGecko demo key, optional
	TotalPages        int           `mapstructure:"total_pages"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds the local store and network-first cache settings
type CacheConfig struct {
	Dir            string        `mapstructure:"dir"`
	NetworkTimeout time.Duration `mapstructure:"network_timeout"`
	MaxEntries     int           `mapstructure:"max_entries"`
	MaxAge         time.Duration `mapstructure:"max_age"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme          string `mapstructure:"theme"` // "dark" or "light"
	Layout         Layout `mapstructure:"layout"`
	WideBreakpoint int    `mapstructure:"wide_breakpoint"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Market: MarketConfig{
			BaseURL:           "https://api.coingecko.com/api/v3",
			TotalPages:        10,
			RequestsPerMinute: 30,
			Timeout:           15 * time.Second,
		},
		Cache: CacheConfig{
			Dir:            defaultDataPath(),
			NetworkTimeout: 3 * time.Second,
			MaxEntries:     50,
			MaxAge:         24 * time.Hour,
		},
		UI: UIConfig{
			Theme:          "dark",
			Layout:         LayoutAuto,
			WideBreakpoint: 100,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), appName+".log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the directory for the database and log file
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultConfigFile returns the config file written when no path is given
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from file and environment.
// An explicit path overrides the search in the default directories.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. COINBOARD_MARKET_API_KEY
	v.SetEnvPrefix("COINBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides apply to keys absent from the file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("market.base_url", cfg.Market.BaseURL)
	v.SetDefault("market.api_key", cfg.Market.APIKey)
	v.SetDefault("market.total_pages", cfg.Market.TotalPages)
	v.SetDefault("market.requests_per_minute", cfg.Market.RequestsPerMinute)
	v.SetDefault("market.timeout", cfg.Market.Timeout)

	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.network_timeout", cfg.Cache.NetworkTimeout)
	v.SetDefault("cache.max_entries", cfg.Cache.MaxEntries)
	v.SetDefault("cache.max_age", cfg.Cache.MaxAge)

	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.layout", string(cfg.UI.Layout))
	v.SetDefault("ui.wide_breakpoint", cfg.UI.WideBreakpoint)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url is required")
	}
	if c.Market.TotalPages < 1 {
		return fmt.Errorf("market.total_pages must be at least 1, got %d", c.Market.TotalPages)
	}
	switch c.UI.Layout {
	case LayoutAuto, LayoutTable, LayoutCards:
	default:
		return fmt.Errorf("unknown ui.layout: %q", c.UI.Layout)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("unknown ui.theme: %q", c.UI.Theme)
	}
	return nil
}

// IsDark reports whether the dark theme is selected
func (c *Config) IsDark() bool {
	return c.UI.Theme != "light"
}

// SaveConfig writes the configuration to path, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("market.base_url", cfg.Market.BaseURL)
	v.Set("market.api_key", cfg.Market.APIKey)
	v.Set("market.total_pages", cfg.Market.TotalPages)
	v.Set("market.requests_per_minute", cfg.Market.RequestsPerMinute)
	v.Set("market.timeout", cfg.Market.Timeout.String())

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.network_timeout", cfg.Cache.NetworkTimeout.String())
	v.Set("cache.max_entries", cfg.Cache.MaxEntries)
	v.Set("cache.max_age", cfg.Cache.MaxAge.String())

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.layout", string(cfg.UI.Layout))
	v.Set("ui.wide_breakpoint", cfg.UI.WideBreakpoint)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
