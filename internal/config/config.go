package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	APIURL      string
	SessionFile string
	// HTTPTimeout of zero means requests are bounded only by their context.
	HTTPTimeout time.Duration
	LogLevel    log.Level
	// MetricsFile, when set, receives the client's request metrics in the
	// Prometheus text format on exit.
	MetricsFile string
	// Accessible renders forms as plain line prompts.
	Accessible  bool
	DemoAddr    string
	DemoSecret  string
}

// Load reads an optional .env file and then the environment. A missing .env
// is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:      strings.TrimRight(getEnv("BANKING_API_URL", "http://localhost:8080/api"), "/"),
		SessionFile: getEnv("BANKING_SESSION_FILE", ""),
		MetricsFile: getEnv("BANKING_METRICS_FILE", ""),
		DemoAddr:    getEnv("DEMO_ADDR", ":8080"),
		DemoSecret:  getEnv("DEMO_JWT_SECRET", ""),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("BANKING_API_URL must not be empty")
	}

	if raw := getEnv("BANKING_HTTP_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BANKING_HTTP_TIMEOUT %q: %w", raw, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("BANKING_HTTP_TIMEOUT must not be negative")
		}
		cfg.HTTPTimeout = d
	}

	level, err := log.ParseLevel(getEnv("LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if raw := getEnv("ACCESSIBLE", ""); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCESSIBLE %q: %w", raw, err)
		}
		cfg.Accessible = on
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
