package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != "4280" {
		t.Errorf("unexpected default port %q", cfg.Server.Port)
	}
	if cfg.LangSmith.Endpoint != "https://api.smith.langchain.com/api/v1" {
		t.Errorf("unexpected default endpoint %q", cfg.LangSmith.Endpoint)
	}
	if cfg.LangSmith.APIKey != "" {
		t.Errorf("default config must not carry a credential, got %q", cfg.LangSmith.APIKey)
	}
	if cfg.LangSmith.TimeoutSeconds != 30 {
		t.Errorf("unexpected default timeout %d", cfg.LangSmith.TimeoutSeconds)
	}
	if cfg.Cache.TTLSeconds != 60 || cfg.Cache.MaxEntries != 256 {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.toml")
	content := `
[server]
name = "Test-Gateway"
port = "9999"

[langsmith]
api_key = "file-key"
endpoint = "http://localhost:1984"
timeout_seconds = 5

[cache]
ttl_seconds = 10
max_entries = 16

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Name != "Test-Gateway" || cfg.Server.Port != "9999" {
		t.Errorf("server settings not applied: %+v", cfg.Server)
	}
	if cfg.LangSmith.APIKey != "file-key" {
		t.Errorf("api_key not applied: %q", cfg.LangSmith.APIKey)
	}
	if cfg.LangSmith.TimeoutSeconds != 5 {
		t.Errorf("timeout not applied: %d", cfg.LangSmith.TimeoutSeconds)
	}
	if cfg.Cache.TTLSeconds != 10 || cfg.Cache.MaxEntries != 16 {
		t.Errorf("cache settings not applied: %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level not applied: %q", cfg.Logging.Level)
	}
}

func TestLoadFromFile_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Server.Port != "4280" {
		t.Errorf("expected defaults, got port %q", cfg.Server.Port)
	}
}

func TestLoadFromFile_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[server\nport ="), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected a parse error for malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANGSMITH_API_KEY", "env-key")
	t.Setenv("LANGSMITH_ENDPOINT", "http://localhost:2984")
	t.Setenv("LANGSMITH_MCP_PORT", "5280")
	t.Setenv("LANGSMITH_LOG_LEVEL", "warn")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.LangSmith.APIKey != "env-key" {
		t.Errorf("LANGSMITH_API_KEY not applied: %q", cfg.LangSmith.APIKey)
	}
	if cfg.LangSmith.Endpoint != "http://localhost:2984" {
		t.Errorf("LANGSMITH_ENDPOINT not applied: %q", cfg.LangSmith.Endpoint)
	}
	if cfg.Server.Port != "5280" {
		t.Errorf("LANGSMITH_MCP_PORT not applied: %q", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("LANGSMITH_LOG_LEVEL not applied: %q", cfg.Logging.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANGSMITH_API_KEY", "env-wins")

	path := filepath.Join(t.TempDir(), "gateway.toml")
	if err := os.WriteFile(path, []byte("[langsmith]\napi_key = \"file-key\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.LangSmith.APIKey != "env-wins" {
		t.Errorf("environment must override the file, got %q", cfg.LangSmith.APIKey)
	}
}

// clearEnv isolates the test from ambient LANGSMITH_* variables.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LANGSMITH_API_KEY", "LANGSMITH_ENDPOINT", "LANGSMITH_MCP_PORT", "LANGSMITH_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}
