package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config carries the runtime settings for the API server and the console
// player. Values come from the environment, with development defaults.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend selects the save persistence provider: "redis", "sqlite"
	// or "memory".
	Backend    string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	RedisURL   string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./versecraft.db"`

	// DataDir is the local story collection; StoriesURL, when set,
	// overrides it with a remote collection.
	DataDir    string `env:"DATA_DIR" envDefault:"./data"`
	StoriesURL string `env:"STORIES_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) LogLevel() slog.Level {
	return parseLogLevel(c.LogLevelRaw)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
