package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaleh/murajaa/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		LogLevel:         "INFO",
		GeneratorURL:     "",
		GeneratorTimeout: 30 * time.Second,
		DeckWorkerCount:  2,
		DeckQueueSize:    32,
		SessionSize:      20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "debug"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.LogLevel = "VERBOSE"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_GeneratorURL(t *testing.T) {
	cfg := validConfig()
	cfg.GeneratorURL = "http://generator:9000"
	assert.NoError(t, cfg.Validate())

	cfg.GeneratorURL = "not a url"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATOR_URL")
}

func TestValidate_WorkerSettings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{"zero workers", func(c *config.Config) { c.DeckWorkerCount = 0 }, "DECK_WORKER_COUNT"},
		{"negative workers", func(c *config.Config) { c.DeckWorkerCount = -1 }, "DECK_WORKER_COUNT"},
		{"zero queue", func(c *config.Config) { c.DeckQueueSize = 0 }, "DECK_QUEUE_SIZE"},
		{"zero session size", func(c *config.Config) { c.SessionSize = 0 }, "SESSION_SIZE"},
		{"zero timeout", func(c *config.Config) { c.GeneratorTimeout = 0 }, "GENERATOR_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "DECK_WORKER_COUNT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("GENERATOR_TIMEOUT", "5s")
	t.Setenv("SESSION_SIZE", "10")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.GeneratorTimeout)
	assert.Equal(t, 10, cfg.SessionSize)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "GENERATOR_URL", "GENERATOR_TIMEOUT", "DECK_WORKER_COUNT", "DECK_QUEUE_SIZE", "SESSION_SIZE"} {
		if v := os.Getenv(key); v != "" {
			t.Setenv(key, "")
		}
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.GeneratorTimeout)
	assert.Equal(t, 2, cfg.DeckWorkerCount)
	assert.NoError(t, cfg.Validate())
}
