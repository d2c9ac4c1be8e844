package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Search   SearchConfig
	Fetch    FetchConfig
	Currency CurrencyConfig
	Matching MatchingConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds the defaults and pacing for one search
type SearchConfig struct {
	MaxPages         int           `mapstructure:"max_pages"`
	Comprehensive    bool          `mapstructure:"comprehensive"`
	RetryFailedSites bool          `mapstructure:"retry_failed_sites"`
	SourceStagger    time.Duration `mapstructure:"source_stagger"`
	PageDelayMin     time.Duration `mapstructure:"page_delay_min"`
	PageDelayMax     time.Duration `mapstructure:"page_delay_max"`
	DedupThreshold   float64       `mapstructure:"dedup_threshold"`
	DefaultSortBy    string        `mapstructure:"default_sort_by"`
	DefaultSortOrder string        `mapstructure:"default_sort_order"`
}

// FetchConfig selects and tunes the page transport
type FetchConfig struct {
	Mode          string        `mapstructure:"mode"` // "http" or "browser"
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
	BrowserWait   time.Duration `mapstructure:"browser_wait"`
	BrowserExec   string        `mapstructure:"browser_exec"`
	DebugRequests bool          `mapstructure:"debug_requests"`
}

// CurrencyConfig holds exchange rate source configuration. An empty APIURL
// keeps the built-in rate table.
type CurrencyConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	RefreshInterval   time.Duration `mapstructure:"refresh_interval"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// MatchingConfig holds matcher configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// PRICELENS_SEARCH_MAX_PAGES -> search.max_pages
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory into the process
// environment. Variables already set win; a missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default,
// even an empty one, for AutomaticEnv to bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "http://localhost:*"})

	v.SetDefault("search.max_pages", 3)
	v.SetDefault("search.comprehensive", true)
	v.SetDefault("search.retry_failed_sites", true)
	v.SetDefault("search.source_stagger", "1s")
	v.SetDefault("search.page_delay_min", "1s")
	v.SetDefault("search.page_delay_max", "2s")
	v.SetDefault("search.dedup_threshold", 0.8)
	v.SetDefault("search.default_sort_by", "price")
	v.SetDefault("search.default_sort_order", "asc")

	v.SetDefault("fetch.mode", "http")
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.max_body_bytes", 10<<20)
	v.SetDefault("fetch.browser_wait", "2s")
	v.SetDefault("fetch.browser_exec", "")
	v.SetDefault("fetch.debug_requests", false)

	v.SetDefault("currency.api_url", "")
	v.SetDefault("currency.refresh_interval", "1h")
	v.SetDefault("currency.requests_per_minute", 30)

	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set PRICELENS_SERVER_PORT)")
	}

	if config.Search.MaxPages < 1 {
		return fmt.Errorf("search max_pages must be at least 1, got: %d", config.Search.MaxPages)
	}

	if config.Search.PageDelayMin > config.Search.PageDelayMax {
		return fmt.Errorf("search page_delay_min (%s) exceeds page_delay_max (%s)",
			config.Search.PageDelayMin, config.Search.PageDelayMax)
	}

	if config.Search.DedupThreshold <= 0 || config.Search.DedupThreshold > 1 {
		return fmt.Errorf("search dedup_threshold must be in (0, 1], got: %v", config.Search.DedupThreshold)
	}

	switch config.Search.DefaultSortBy {
	case "price", "rating", "source", "name":
	default:
		return fmt.Errorf("search default_sort_by must be one of price, rating, source, name, got: %s", config.Search.DefaultSortBy)
	}

	if config.Search.DefaultSortOrder != "asc" && config.Search.DefaultSortOrder != "desc" {
		return fmt.Errorf("search default_sort_order must be 'asc' or 'desc', got: %s", config.Search.DefaultSortOrder)
	}

	if config.Fetch.Mode != "http" && config.Fetch.Mode != "browser" {
		return fmt.Errorf("fetch mode must be 'http' or 'browser', got: %s", config.Fetch.Mode)
	}

	return nil
}
