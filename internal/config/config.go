package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	GeneratorURL     string
	GeneratorTimeout time.Duration
	DeckWorkerCount  int
	DeckQueueSize    int
	SessionSize      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:murajaa.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		GeneratorURL:     envOr("GENERATOR_URL", ""),
		GeneratorTimeout: envDurationOr("GENERATOR_TIMEOUT", 30*time.Second),
		DeckWorkerCount:  envIntOr("DECK_WORKER_COUNT", 2),
		DeckQueueSize:    envIntOr("DECK_QUEUE_SIZE", 32),
		SessionSize:      envIntOr("SESSION_SIZE", 20),
	}
}

// Validate checks the configuration for values that would make the server
// misbehave at runtime. It collects every problem instead of stopping at the
// first, so one restart fixes them all.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.GeneratorURL != "" {
		if u, err := url.Parse(c.GeneratorURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("GENERATOR_URL %q is not an absolute URL", c.GeneratorURL))
		}
	}
	if c.GeneratorTimeout <= 0 {
		problems = append(problems, "GENERATOR_TIMEOUT must be positive")
	}
	if c.DeckWorkerCount <= 0 {
		problems = append(problems, "DECK_WORKER_COUNT must be positive")
	}
	if c.DeckQueueSize <= 0 {
		problems = append(problems, "DECK_QUEUE_SIZE must be positive")
	}
	if c.SessionSize <= 0 {
		problems = append(problems, "SESSION_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
