// Package config reads process settings from the environment. A .env file in
// the working directory, if present, is loaded first; real environment
// variables win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the API server configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":3000"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	Catalog         string        `env:"CATALOG" envDefault:"sqlite"`
	DBPath          string        `env:"DB_PATH" envDefault:"data/landmarks.db"`
	RedisURL        string        `env:"REDIS_URL"`
	SummaryTimeout  time.Duration `env:"SUMMARY_TIMEOUT" envDefault:"5s"`
	SummaryCacheTTL time.Duration `env:"SUMMARY_CACHE_TTL" envDefault:"24h"`
	SPADir          string        `env:"SPA_DIR" envDefault:"../web/dist"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// PlayConfig is the terminal client configuration.
type PlayConfig struct {
	APIURL     string        `env:"API_URL" envDefault:"http://localhost:3000"`
	StateDir   string        `env:"STATE_DIR" envDefault:".landmarks"`
	LogLevel   slog.Level    `env:"LOG_LEVEL" envDefault:"WARN"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

func Load() (*Config, error) {
	cfg, err := load[Config]()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadPlay() (*PlayConfig, error) {
	return load[PlayConfig]()
}

func load[T any]() (*T, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

const (
	CatalogSQLite  = "sqlite"
	CatalogBuiltin = "builtin"
)

func (c *Config) validate() error {
	switch c.Catalog {
	case CatalogSQLite, CatalogBuiltin:
		return nil
	default:
		return fmt.Errorf("CATALOG must be %q or %q, got %q", CatalogSQLite, CatalogBuiltin, c.Catalog)
	}
}
