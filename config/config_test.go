package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"LABELCHECK_SERVER_PORT",
	"LABELCHECK_SERVER_ENVIRONMENT",
	"LABELCHECK_SERVER_ALLOWED_ORIGINS",
	"LABELCHECK_CATALOG_TYPE",
	"LABELCHECK_CATALOG_PATH",
	"LABELCHECK_CATALOG_BASE_URL",
	"LABELCHECK_CATALOG_API_KEY",
	"LABELCHECK_CACHE_TYPE",
	"LABELCHECK_CACHE_TTL",
	"LABELCHECK_RATELIMIT_PER_IP",
	"LABELCHECK_RATELIMIT_CATALOG",
	"LABELCHECK_SCAN_MIN_OCR_CONFIDENCE",
	"LABELCHECK_SCAN_MAX_ALTERNATIVES",
	"LABELCHECK_SCAN_HISTORY_PATH",
	"LABELCHECK_LOG_LEVEL",
	"LABELCHECK_LOG_FORMAT",
}

// isolate runs the test from an empty directory with a clean LABELCHECK_ environment
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.ShutdownTimeout != 10*time.Second {
			t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Catalog.Type != "file" {
			t.Errorf("Catalog.Type = %s, want file", cfg.Catalog.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Catalog != 120 {
			t.Errorf("RateLimit.Catalog = %d, want 120", cfg.RateLimit.Catalog)
		}
		if cfg.Scan.MinOCRConfidence != 0.8 {
			t.Errorf("Scan.MinOCRConfidence = %v, want 0.8", cfg.Scan.MinOCRConfidence)
		}
		if cfg.Scan.MaxAlternatives != 3 {
			t.Errorf("Scan.MaxAlternatives = %d, want 3", cfg.Scan.MaxAlternatives)
		}
		if cfg.Scan.HistoryPath != "" {
			t.Errorf("Scan.HistoryPath = %q, want empty", cfg.Scan.HistoryPath)
		}
		if cfg.Log.Format != "console" {
			t.Errorf("Log.Format = %s, want console", cfg.Log.Format)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("LABELCHECK_SERVER_PORT", "9090")
		t.Setenv("LABELCHECK_SERVER_ENVIRONMENT", "production")
		t.Setenv("LABELCHECK_CATALOG_TYPE", "http")
		t.Setenv("LABELCHECK_CATALOG_BASE_URL", "https://catalog.example.com")
		t.Setenv("LABELCHECK_CATALOG_API_KEY", "secret")
		t.Setenv("LABELCHECK_CACHE_TTL", "1h")
		t.Setenv("LABELCHECK_RATELIMIT_PER_IP", "200")
		t.Setenv("LABELCHECK_SCAN_MIN_OCR_CONFIDENCE", "0.65")
		t.Setenv("LABELCHECK_SCAN_MAX_ALTERNATIVES", "5")
		t.Setenv("LABELCHECK_SCAN_HISTORY_PATH", "/var/lib/labelcheck/scans.db")
		t.Setenv("LABELCHECK_LOG_FORMAT", "json")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.Type != "http" || cfg.Catalog.BaseURL != "https://catalog.example.com" {
			t.Errorf("Catalog = %+v, want http catalog at https://catalog.example.com", cfg.Catalog)
		}
		if cfg.Catalog.APIKey != "secret" {
			t.Errorf("Catalog.APIKey = %s, want secret", cfg.Catalog.APIKey)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Scan.MinOCRConfidence != 0.65 {
			t.Errorf("Scan.MinOCRConfidence = %v, want 0.65", cfg.Scan.MinOCRConfidence)
		}
		if cfg.Scan.MaxAlternatives != 5 {
			t.Errorf("Scan.MaxAlternatives = %d, want 5", cfg.Scan.MaxAlternatives)
		}
		if cfg.Scan.HistoryPath != "/var/lib/labelcheck/scans.db" {
			t.Errorf("Scan.HistoryPath = %s, want /var/lib/labelcheck/scans.db", cfg.Scan.HistoryPath)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
		}
	})

	t.Run("reads config.yaml from the working directory", func(t *testing.T) {
		isolate(t)
		content := `
server:
  port: "7070"
catalog:
  type: file
  path: ./products.yaml
scan:
  max_alternatives: 1
`
		if err := os.WriteFile("config.yaml", []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config.yaml: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
		if cfg.Catalog.Path != "./products.yaml" {
			t.Errorf("Catalog.Path = %s, want ./products.yaml", cfg.Catalog.Path)
		}
		if cfg.Scan.MaxAlternatives != 1 {
			t.Errorf("Scan.MaxAlternatives = %d, want 1", cfg.Scan.MaxAlternatives)
		}
	})

	t.Run("fails validation when http catalog has no base URL", func(t *testing.T) {
		isolate(t)
		t.Setenv("LABELCHECK_CATALOG_TYPE", "http")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing base URL")
		}
		if !strings.HasPrefix(err.Error(), "invalid configuration: catalog base URL is required") {
			t.Errorf("Load() error = %v, want 'catalog base URL is required'", err)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		isolate(t)
		t.Setenv("LABELCHECK_CACHE_TYPE", "redis")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		t.Chdir(t.TempDir())
		envContent := `
# Comment line
LABELCHECK_TEST_ONE=value1
   # indented comment

LABELCHECK_TEST_TWO="value2"
# LABELCHECK_TEST_COMMENTED=should_not_load
export LABELCHECK_TEST_THREE='value3'
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		for _, key := range []string{"LABELCHECK_TEST_ONE", "LABELCHECK_TEST_TWO", "LABELCHECK_TEST_THREE", "LABELCHECK_TEST_COMMENTED"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if got := os.Getenv("LABELCHECK_TEST_ONE"); got != "value1" {
			t.Errorf("LABELCHECK_TEST_ONE = %s, want value1", got)
		}
		if got := os.Getenv("LABELCHECK_TEST_TWO"); got != "value2" {
			t.Errorf("LABELCHECK_TEST_TWO = %s, want value2", got)
		}
		if got := os.Getenv("LABELCHECK_TEST_THREE"); got != "value3" {
			t.Errorf("LABELCHECK_TEST_THREE = %s, want value3", got)
		}
		if _, ok := os.LookupEnv("LABELCHECK_TEST_COMMENTED"); ok {
			t.Errorf("LABELCHECK_TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("Load picks up .env values", func(t *testing.T) {
		isolate(t)
		if err := os.WriteFile(".env", []byte("LABELCHECK_SERVER_PORT=6060\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "6060" {
			t.Errorf("Server.Port = %s, want 6060 from .env", cfg.Server.Port)
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("LABELCHECK_TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("LABELCHECK_TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if got := os.Getenv("LABELCHECK_TEST_OVERRIDE"); got != "existing-value" {
			t.Errorf("LABELCHECK_TEST_OVERRIDE = %s, want existing-value (should not override)", got)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Catalog: CatalogConfig{Type: "file", Path: "catalog.yaml"},
			Cache:   CacheConfig{Type: "memory"},
			Scan:    ScanConfig{MinOCRConfidence: 0.8, MaxAlternatives: 3},
			Log:     LogConfig{Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid file catalog", mutate: func(*Config) {}},
		{name: "valid http catalog", mutate: func(c *Config) {
			c.Catalog = CatalogConfig{Type: "http", BaseURL: "https://catalog.example.com"}
		}},
		{name: "file catalog without path", mutate: func(c *Config) { c.Catalog.Path = "" }, wantErr: true},
		{name: "unknown catalog type", mutate: func(c *Config) { c.Catalog.Type = "sql" }, wantErr: true},
		{name: "unknown cache type", mutate: func(c *Config) { c.Cache.Type = "redis" }, wantErr: true},
		{name: "confidence above one", mutate: func(c *Config) { c.Scan.MinOCRConfidence = 1.5 }, wantErr: true},
		{name: "negative confidence", mutate: func(c *Config) { c.Scan.MinOCRConfidence = -0.1 }, wantErr: true},
		{name: "zero alternatives", mutate: func(c *Config) { c.Scan.MaxAlternatives = 0 }},
		{name: "negative alternatives", mutate: func(c *Config) { c.Scan.MaxAlternatives = -1 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.PerIP = -1 }, wantErr: true},
		{name: "json log format", mutate: func(c *Config) { c.Log.Format = "json" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
