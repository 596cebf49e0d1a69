package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by TOKEN_STORE and ZONE_STORE.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendTZF      = "tzf"
	BackendGoogle   = "google"
)

const defaultConfigPathEnv = "CONFIG_FILE"

// Config holds environment-driven settings for the lookup service.
type Config struct {
	DatabaseURL      string        `yaml:"database_url"`
	Port             int           `yaml:"port"`
	TokenStore       string        `yaml:"token_store"`
	ZoneStore        string        `yaml:"zone_store"`
	RedisAddr        string        `yaml:"redis_addr"`
	RedisPassword    string        `yaml:"redis_password"`
	GoogleMapsAPIKey string        `yaml:"google_maps_api_key"`
	QueryTimeout     time.Duration `yaml:"query_timeout"`
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// then from environment variables (optionally .env), which take precedence.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:         8080,
		TokenStore:   BackendPostgres,
		ZoneStore:    BackendPostgres,
		QueryTimeout: 10 * time.Second,
	}

	if path := os.Getenv(defaultConfigPathEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("TOKEN_STORE")); v != "" {
		cfg.TokenStore = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("ZONE_STORE")); v != "" {
		cfg.ZoneStore = strings.ToLower(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		cfg.GoogleMapsAPIKey = v
	}

	if v := strings.TrimSpace(os.Getenv("QUERY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid QUERY_TIMEOUT: %s", v)
		}
		cfg.QueryTimeout = d
	}

	return cfg, cfg.validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	switch c.TokenStore {
	case BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("invalid TOKEN_STORE: %s", c.TokenStore)
	}
	switch c.ZoneStore {
	case BackendPostgres, BackendTZF, BackendGoogle:
	default:
		return fmt.Errorf("invalid ZONE_STORE: %s", c.ZoneStore)
	}

	if c.UsesPostgres() && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.TokenStore == BackendRedis && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	if c.ZoneStore == BackendGoogle && c.GoogleMapsAPIKey == "" {
		return errors.New("GOOGLE_MAPS_API_KEY is required")
	}
	return nil
}

// UsesPostgres reports whether any store is served from DATABASE_URL.
func (c Config) UsesPostgres() bool {
	return c.TokenStore == BackendPostgres || c.ZoneStore == BackendPostgres
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
