package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/inkwell-ai/inkwell/pkg/database"
	"github.com/inkwell-ai/inkwell/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvInkwellEnv     = "INKWELL_ENV"
	EnvInkwellVersion = "INKWELL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "INKWELL_DB_HOST",
	Port:            "INKWELL_DB_PORT",
	Name:            "INKWELL_DB_NAME",
	User:            "INKWELL_DB_USER",
	Password:        "INKWELL_DB_PASSWORD",
	SSLMode:         "INKWELL_DB_SSL_MODE",
	MaxOpenConns:    "INKWELL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "INKWELL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "INKWELL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "INKWELL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "INKWELL_STORAGE_CONTAINER_NAME",
	ConnectionString: "INKWELL_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the Inkwell service.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	Database database.Config      `toml:"database"`
	Storage  storage.Config       `toml:"storage"`
	Agent    gaconfig.AgentConfig `toml:"agent"`
	API      APIConfig            `toml:"api"`
	Workflow WorkflowConfig       `toml:"workflow"`
	Version  string               `toml:"version"`
}

// Env returns the INKWELL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvInkwellEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns the server shutdown timeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.Server.ShutdownTimeoutDuration()
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Agent.Merge(&overlay.Agent)
	c.API.Merge(&overlay.API)
	c.Workflow.Merge(&overlay.Workflow)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvInkwellVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvInkwellEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
