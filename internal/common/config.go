// Package common provides shared utilities for Numera
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Numera
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Engine      EngineConfig  `toml:"engine"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration.
// RateLimit is requests per second across all clients; zero disables limiting.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// EngineConfig holds defaults for scenario and break-even computations.
type EngineConfig struct {
	BreakEvenTolerance   float64   `toml:"break_even_tolerance"`
	BreakEvenMaxIter     int       `toml:"break_even_max_iter"`
	DefaultPrecioVec     []float64 `toml:"default_precio_vec"`
	DefaultCostesVec     []float64 `toml:"default_costes_vec"`
	ScenarioHistoryLimit int       `toml:"scenario_history_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// AuthConfig holds bearer-token configuration for mutating endpoints.
// When TokenSecret is empty the API is open (single-tenant deployments).
type AuthConfig struct {
	TokenSecret string `toml:"token_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 50,
			RateBurst: 100,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "numera",
			Database:  "numera",
			Username:  "root",
			Password:  "root",
		},
		Engine: EngineConfig{
			BreakEvenTolerance:   1.0,
			BreakEvenMaxIter:     60,
			DefaultPrecioVec:     []float64{-0.2, -0.1, 0, 0.1, 0.2},
			DefaultCostesVec:     []float64{-0.2, -0.1, 0, 0.1, 0.2},
			ScenarioHistoryLimit: 50,
		},
		Auth: AuthConfig{
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"console"},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NUMERA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NUMERA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NUMERA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NUMERA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("NUMERA_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if ns := os.Getenv("NUMERA_STORAGE_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("NUMERA_STORAGE_DATABASE"); db != "" {
		config.Storage.Database = db
	}
	if user := os.Getenv("NUMERA_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("NUMERA_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if v := os.Getenv("NUMERA_AUTH_TOKEN_SECRET"); v != "" {
		config.Auth.TokenSecret = v
	}
	if v := os.Getenv("NUMERA_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
