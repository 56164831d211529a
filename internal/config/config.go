// Package config loads gateway configuration with priority:
// defaults -> TOML file -> environment.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/langsmith-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	LangSmith LangSmithConfig      `toml:"langsmith"`
	Cache     CacheConfig          `toml:"cache"`
	Logging   common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// LangSmithConfig holds backend connection settings. APIKey may be empty:
// startup and catalog listing still work, and every backend-dependent tool
// call then reports a configuration error.
type LangSmithConfig struct {
	APIKey         string `toml:"api_key"`
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CacheConfig holds catalog response cache settings.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxEntries int `toml:"max_entries"`
}

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "LangSmith-MCP",
			Port: "4280",
		},
		LangSmith: LangSmithConfig{
			Endpoint:       "https://api.smith.langchain.com/api/v1",
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			TTLSeconds: 60,
			MaxEntries: 256,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/langsmith-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadFromFile loads configuration from a TOML file with defaults and env
// overrides. A missing file is not an error — defaults plus environment
// still produce a usable config.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies LANGSMITH_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("LANGSMITH_API_KEY"); key != "" {
		config.LangSmith.APIKey = key
	}
	if endpoint := os.Getenv("LANGSMITH_ENDPOINT"); endpoint != "" {
		config.LangSmith.Endpoint = endpoint
	}
	if port := os.Getenv("LANGSMITH_MCP_PORT"); port != "" {
		config.Server.Port = port
	}
	if level := os.Getenv("LANGSMITH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
