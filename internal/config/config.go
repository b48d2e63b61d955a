// Package config provides configuration management for storekeeper.
//
// Config file locations (priority order):
//  1. $STOREKEEPER_CONFIG
//  2. ./storekeeper.yaml
//  3. ~/.config/storekeeper/config.yaml
//  4. /etc/storekeeper/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"storekeeper/internal/database"
	"storekeeper/internal/logging"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds log level, format, and optional file rotation.
type LoggingConfig struct {
	Level  string              `yaml:"level"`
	Format string              `yaml:"format"`
	File   logging.FileOptions `yaml:"file"`
}

// Config is the whole application configuration.
type Config struct {
	Version  int             `yaml:"version"`
	Server   ServerConfig    `yaml:"server"`
	Database database.Config `yaml:"database"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Parsing starts from
// DefaultConfig, so a section the file omits keeps its defaults; the
// migrate flags in particular stay enabled unless the file sets them to
// false explicitly.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: database.Config{
			Connection: *database.DefaultConnectionConfig(),
			Migrate: database.MigrateConfig{
				MigrateOnStartup: true,
				EnableForeignKey: true,
				SeedCatalog:      true,
			},
			Init: database.InitConfig{
				Filepath:    "configs/sql",
				Environment: "prod",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Database.Connection.Type == "" {
		c.Database.Connection.Type = def.Database.Connection.Type
	}
	if c.Database.Connection.DBName == "" {
		c.Database.Connection.DBName = def.Database.Connection.DBName
	}
	if c.Database.Connection.ConnectTimeout == 0 {
		c.Database.Connection.ConnectTimeout = def.Database.Connection.ConnectTimeout
	}
	if c.Database.Init.Filepath == "" {
		c.Database.Init.Filepath = def.Database.Init.Filepath
	}
	if c.Database.Init.Environment == "" {
		c.Database.Init.Environment = def.Database.Init.Environment
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}
