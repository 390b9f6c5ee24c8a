package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server the client talks to
	ServerURL      string
	TokenPagePath  string
	RequestTimeout time.Duration

	// Local draft store
	DraftDBPath string

	// Interaction tuning
	DebounceInterval time.Duration
	ReferenceTTL     time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from the environment, after loading a .env
// file when one is present. Missing variables fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerURL:      getEnv("FLUXO_SERVER_URL", "http://localhost:8000"),
		TokenPagePath:  getEnv("FLUXO_TOKEN_PAGE", "/transactions/create/"),
		RequestTimeout: getEnvDuration("FLUXO_REQUEST_TIMEOUT", 15*time.Second),

		DraftDBPath: getEnv("FLUXO_DRAFT_DB_PATH", "./data/fluxo.db"),

		DebounceInterval: getEnvDuration("FLUXO_DEBOUNCE_INTERVAL", 800*time.Millisecond),
		ReferenceTTL:     getEnvDuration("FLUXO_REFERENCE_TTL", 24*time.Hour),

		LogLevel: getEnv("FLUXO_LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid server URL %q", c.ServerURL))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, "request timeout must be positive")
	}
	if c.DebounceInterval <= 0 {
		errs = append(errs, "debounce interval must be positive")
	}
	if c.ReferenceTTL <= 0 {
		errs = append(errs, "reference TTL must be positive")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
