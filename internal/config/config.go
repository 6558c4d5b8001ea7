package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Togather-Foundation/venues/internal/validation"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Storage     StorageConfig   `yaml:"storage"`
	Database    DatabaseConfig  `yaml:"database"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Logging     LoggingConfig   `yaml:"logging"`
	Tracing     TracingConfig   `yaml:"tracing"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	// Backend is "memory" (default) or "postgres".
	Backend        string `yaml:"backend"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
	MigrationsPath string `yaml:"migrations_path"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConnections int    `yaml:"max_connections"`
}

type RateLimitConfig struct {
	// PerMinute is the per-client request budget; 0 disables limiting.
	PerMinute int `yaml:"per_minute"`
	// TrustedProxyCIDRs lists peers whose X-Forwarded-For is believed.
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Storage: StorageConfig{
			Backend:        BackendMemory,
			AutoMigrate:    true,
			MigrationsPath: "internal/storage/postgres/migrations",
		},
		Database: DatabaseConfig{
			MaxConnections: 25,
		},
		RateLimit: RateLimitConfig{PerMinute: 120},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Tracing: TracingConfig{
			Exporter:     "stdout",
			ServiceName:  "venues",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Environment: "development",
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)

	cfg.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", cfg.Storage.Backend))
	cfg.Storage.AutoMigrate = getEnvBool("STORAGE_AUTO_MIGRATE", cfg.Storage.AutoMigrate)
	cfg.Storage.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.Storage.MigrationsPath)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxConnections = getEnvInt("DATABASE_MAX_CONNECTIONS", cfg.Database.MaxConnections)

	cfg.RateLimit.PerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimit.PerMinute)
	cfg.RateLimit.TrustedProxyCIDRs = getEnvList("RATE_LIMIT_TRUSTED_PROXIES", cfg.RateLimit.TrustedProxyCIDRs)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = getEnv("TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.OTLPEndpoint)
	cfg.Tracing.SampleRate = getEnvFloat("TRACING_SAMPLE_RATE", cfg.Tracing.SampleRate)

	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT: must be 1-65535, got %d", c.Server.Port))
	}
	if err := validation.ValidateBaseURL(c.Server.BaseURL, "SERVER_BASE_URL", c.IsProduction()); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND: must be %q or %q, got %q", BackendMemory, BackendPostgres, c.Storage.Backend))
	}

	if c.RateLimit.PerMinute < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE: must be >= 0, got %d", c.RateLimit.PerMinute))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be json or console, got %q", c.Logging.Format))
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "stdout", "otlp", "none":
		default:
			errs = append(errs, fmt.Errorf("TRACING_EXPORTER: must be stdout, otlp or none, got %q", c.Tracing.Exporter))
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			errs = append(errs, fmt.Errorf("TRACING_SAMPLE_RATE: must be between 0.0 and 1.0, got %v", c.Tracing.SampleRate))
		}
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
