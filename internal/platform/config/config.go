// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Sweeper) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/listify/internal/platform/postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the Listify API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string       `env:"DATABASE_URL,required"`
	Pool        DatabasePool `envPrefix:"DB_"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) backing the provider result cache
	RedisURL string `env:"REDIS_URL,required"`

	// ResultCachePrefix is the first segment of every provider cache key.
	ResultCachePrefix string `env:"RESULT_CACHE_PREFIX" envDefault:"api"`

	// Token verification (tokens are issued by the identity service)
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Locally managed cover images
	AssetDir       string `env:"ASSET_DIR"        envDefault:"./static/images"`
	AssetURLPrefix string `env:"ASSET_URL_PREFIX" envDefault:"/static/images/"`

	// Orphan sweeper schedule
	SweepEnabled      bool          `env:"SWEEP_ENABLED"       envDefault:"true"`
	SweepInitialDelay time.Duration `env:"SWEEP_INITIAL_DELAY" envDefault:"60s"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL"      envDefault:"24h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// DatabasePool sizes the PostgreSQL connection pool (DB_MAX_CONNS, ...).
type DatabasePool struct {
	MaxConns         int32         `env:"MAX_CONNS"         envDefault:"25"`
	MinConns         int32         `env:"MIN_CONNS"         envDefault:"5"`
	StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"30s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PoolOptions converts the pool settings for [postgres.NewPool].
func (p DatabasePool) PoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MaxConns:         p.MaxConns,
		MinConns:         p.MinConns,
		StatementTimeout: p.StatementTimeout,
	}
}

// # Operator Tooling

// ToolConfig is the subset of settings catalogctl needs. Redis is optional
// there: without it, cache evictions are skipped.
type ToolConfig struct {
	DatabaseURL       string       `env:"DATABASE_URL,required"`
	Pool              DatabasePool `envPrefix:"DB_"`
	MigrationPath     string       `env:"MIGRATION_PATH"      envDefault:"./data/migrations"`
	RedisURL          string       `env:"REDIS_URL"`
	ResultCachePrefix string       `env:"RESULT_CACHE_PREFIX" envDefault:"api"`
	AssetDir          string       `env:"ASSET_DIR"           envDefault:"./static/images"`
	AssetURLPrefix    string       `env:"ASSET_URL_PREFIX"    envDefault:"/static/images/"`
	Debug             bool         `env:"DEBUG"               envDefault:"false"`
}

// LoadTool parses environment variables into a [ToolConfig].
func LoadTool() (*ToolConfig, error) {
	cfg := &ToolConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}
