package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envFile = ".env"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig selects and configures the product catalog
type CatalogConfig struct {
	Type    string `mapstructure:"type"` // "file" or "http"
	Path    string `mapstructure:"path"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	Catalog int `mapstructure:"catalog"`
}

// ScanConfig tunes scan orchestration
type ScanConfig struct {
	MinOCRConfidence float64 `mapstructure:"min_ocr_confidence"`
	MaxAlternatives  int     `mapstructure:"max_alternatives"`
	HistoryPath      string  `mapstructure:"history_path"` // empty keeps history in memory
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labelcheck/")

	// LABELCHECK_CATALOG_BASE_URL -> catalog.base_url
	v.SetEnvPrefix("LABELCHECK")
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("catalog.type", "file")
	v.SetDefault("catalog.path", "./config/catalog.yaml")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.api_key", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.catalog", 120)

	v.SetDefault("scan.min_ocr_confidence", 0.8)
	v.SetDefault("scan.max_alternatives", 3)
	v.SetDefault("scan.history_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Type {
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog type is 'file' (set LABELCHECK_CATALOG_PATH)")
		}
	case "http":
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required when catalog type is 'http' (set LABELCHECK_CATALOG_BASE_URL)")
		}
	default:
		return fmt.Errorf("catalog type must be 'file' or 'http', got: %s", config.Catalog.Type)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Scan.MinOCRConfidence < 0 || config.Scan.MinOCRConfidence > 1 {
		return fmt.Errorf("scan min_ocr_confidence must be between 0 and 1, got: %v", config.Scan.MinOCRConfidence)
	}

	if config.Scan.MaxAlternatives < 0 {
		return fmt.Errorf("scan max_alternatives must not be negative, got: %d", config.Scan.MaxAlternatives)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Catalog < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}

// loadEnvFile loads ./.env into the environment. Variables that are
// already set win. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return gotenv.Load(envFile)
}
