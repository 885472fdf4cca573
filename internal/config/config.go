package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the memory vault service.
// Environment variables are automatically parsed from the MEMORY_VAULT_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: "sqlite" (local/dev) or "postgres" (hosted)
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// DataDir holds the SQLite file and uploaded PRD originals.
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// Provider configuration
	OpenRouterBaseURL string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api"`
	OpenRouterModel   string `envconfig:"OPENROUTER_MODEL" default:"anthropic/claude-sonnet-4"`
	ClaudeModel       string `envconfig:"CLAUDE_MODEL" default:"claude-sonnet-4-20250514"`
	ClaudeMaxTokens   int    `envconfig:"CLAUDE_MAX_TOKENS" default:"4096"`

	// AppURL is sent as the OpenRouter HTTP-Referer attribution header.
	AppURL string `envconfig:"APP_URL" default:"http://localhost:3000"`
}

// ResolveDefaults validates the driver selection and derives the SQLite path
// when the driver is "auto" or "sqlite" and no explicit path is set.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}

	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = filepath.Join(c.DataDir, "memory-vault.db")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with MEMORY_VAULT_
// Example: MEMORY_VAULT_HTTP_PORT, MEMORY_VAULT_POSTGRES_DSN
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MEMORY_VAULT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("data_dir", cfg.DataDir).
		Str("openrouter_model", cfg.OpenRouterModel).
		Str("claude_model", cfg.ClaudeModel).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	cfg := &Config{
		Environment:       EnvTesting,
		HTTPPort:          8080,
		DBDriver:          "sqlite",
		SQLitePath:        ":memory:",
		DataDir:           ".",
		OpenRouterBaseURL: "https://openrouter.ai/api",
		OpenRouterModel:   "anthropic/claude-sonnet-4",
		ClaudeModel:       "claude-sonnet-4-20250514",
		ClaudeMaxTokens:   4096,
		AppURL:            "http://localhost:3000",
	}
	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
