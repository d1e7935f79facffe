// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file,
// when present), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults so a bare `concerts` run works against a local SQLite file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key idea in this file:
	- Env vars are read using a prefix: CONCERTS_
	- Keys are normalized (lowercased, prefix removed)
	- A double underscore marks nesting, a single underscore stays inside the key:
	  CONCERTS_DATABASE__SSL_MODE -> database.ssl_mode -> Config.Database.SSLMode
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "CONCERTS_"

// Supported values for DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from and the
// `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary"`
	Database      DatabaseConfig       `koanf:"database"`
	Server        ServerConfig         `koanf:"server"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// It tags logs and switches behavior (console logging and SQL tracing in "local").
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// DatabaseConfig selects the relational store and how to reach it.
//
// SQLite is the default and only needs Path. PostgreSQL needs the usual
// connection parameters; they are only required when Driver is "postgres".
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite postgres"`

	// Path is the SQLite database file.
	Path string `koanf:"path" validate:"required_if=Driver sqlite"`
	// ForeignKeys turns on SQLite's foreign key enforcement. Off by default,
	// so concerts may reference bands or venues that do not exist.
	ForeignKeys bool `koanf:"foreign_keys"`
	// BusyTimeout is how long SQLite waits on a locked file.
	BusyTimeout time.Duration `koanf:"busy_timeout"`

	Host     string `koanf:"host" validate:"required_if=Driver postgres"`
	Port     int    `koanf:"port" validate:"required_if=Driver postgres"`
	User     string `koanf:"user" validate:"required_if=Driver postgres"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode  string `koanf:"ssl_mode"`
}

// ServerConfig groups settings for the HTTP API started by `concerts serve`.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	// RateLimit is the allowed requests per second per client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// IsLocal reports whether the app runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}

// DefaultConfig returns the configuration used when nothing is set.
//
// LoadConfig unmarshals the environment on top of it, so every field
// here is only a fallback.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			Path:        "my_concerts.db",
			BusyTimeout: 5 * time.Second,
			Port:        5432,
			SSLMode:     "disable",
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
	}
}

// envKey maps CONCERTS_DATABASE__SSL_MODE to database.ssl_mode.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from environment variables, unmarshals it on
// top of DefaultConfig, validates it and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix CONCERTS_
//   - Converts env keys into koanf keys ("__" becomes ".")
//   - Validates required config blocks/fields
//   - Sets default observability if missing, then validates it
//
// Unlike a server that can only die on bad config, callers (the CLI and
// tests) decide what to do with the error.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// Unmarshal only overwrites keys that are present, so defaults survive.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = "concerts"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
