package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultCoordPrecision = 4
	defaultAltPrecision   = 0
	defaultRequestTimeout = 30 * time.Second
)

// Config holds runtime configuration for the uploader CLI.
type Config struct {
	ServerURL      string
	Token          string
	CoordPrecision int
	AltPrecision   int
	RequestTimeout time.Duration
	DryRun         bool
}

// LookupEnabled reports whether time zones should be resolved remotely.
func (c Config) LookupEnabled() bool {
	return !c.DryRun && c.ServerURL != ""
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServerURL = strings.TrimSpace(os.Getenv("TZ_SERVER_URL"))
	cfg.Token = strings.TrimSpace(os.Getenv("TZ_TOKEN"))
	if cfg.ServerURL != "" && cfg.Token == "" {
		return cfg, errors.New("TZ_TOKEN is required when TZ_SERVER_URL is set")
	}

	var err error
	if cfg.CoordPrecision, err = intEnv("COORD_PRECISION", defaultCoordPrecision); err != nil {
		return cfg, err
	}
	if cfg.AltPrecision, err = intEnv("ALT_PRECISION", defaultAltPrecision); err != nil {
		return cfg, err
	}

	cfg.RequestTimeout = defaultRequestTimeout
	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}
	return n, nil
}
