// Package config loads server configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Driver names a storage backend.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete server configuration.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// DB selects and configures the storage backend.
	DB DBConfig `yaml:"db"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Port is the TCP port to listen on.
	Port int `yaml:"port"`

	// StaticPath is a directory with a built frontend to serve at /.
	// Empty disables static serving.
	StaticPath string `yaml:"static_path"`

	// CORSOrigin is the value of Access-Control-Allow-Origin.
	CORSOrigin string `yaml:"cors_origin"`

	// ShutdownTimeout bounds graceful shutdown.
	// Format: "10s", "1m"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig selects and configures the storage backend.
type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// URL is the Postgres DSN.
	URL string `yaml:"url"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is "text" (colored) or "json".
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            5001,
			CORSOrigin:      "*",
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Driver: DriverSQLite,
			Path:   "./data/participants.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		c.Server.Port = port
	}
	setString(&c.Server.StaticPath, "STATIC_PATH")
	setString(&c.Server.CORSOrigin, "CORS_ORIGIN")
	setString(&c.DB.Driver, "DB_DRIVER")
	setString(&c.DB.Path, "DB_PATH")
	setString(&c.DB.URL, "DATABASE_URL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("db.path required for sqlite (use DB_PATH env)")
		}
	case DriverPostgres:
		if c.DB.URL == "" {
			return errors.New("db.url required for postgres (use DATABASE_URL env)")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
