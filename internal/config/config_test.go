package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Auth.SecretKey = "test-secret"
	return cfg
}

func TestDefaultConfig_RequiresAuthSecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation to fail without an auth secret")
	}

	cfg.Auth.SecretKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config with secret set, got %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"zero database timeout", func(c *Config) { c.Database.Timeout = 0 }},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }},
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"empty host", func(c *Config) { c.HTTP.Host = "" }},
		{"zero ping interval", func(c *Config) { c.WebSocket.PingInterval = 0 }},
		{"zero buffer size", func(c *Config) { c.WebSocket.BufferSize = 0 }},
		{"zero token TTL", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"empty from address", func(c *Config) { c.Email.FromAddress = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation failure for %s", tc.name)
			}
		})
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCHOLARBOARD_HTTP_PORT", "9090")
	t.Setenv("SCHOLARBOARD_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("SCHOLARBOARD_AUTH_SECRET", "env-secret")
	t.Setenv("SCHOLARBOARD_AUTH_TOKEN_TTL", "2h")

	cfg := LoadFromEnv()

	if cfg.HTTP.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Expected env database path, got %s", cfg.Database.Path)
	}
	if cfg.Auth.SecretKey != "env-secret" {
		t.Errorf("Expected env secret, got %q", cfg.Auth.SecretKey)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Expected 2h TTL, got %v", cfg.Auth.TokenTTL)
	}
}

func TestLoadFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SCHOLARBOARD_HTTP_PORT", "not-a-number")
	t.Setenv("SCHOLARBOARD_DATABASE_TIMEOUT", "soon")

	cfg := LoadFromEnv()
	defaults := DefaultConfig()

	if cfg.HTTP.Port != defaults.HTTP.Port {
		t.Errorf("Expected default port kept, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Timeout != defaults.Database.Timeout {
		t.Errorf("Expected default timeout kept, got %v", cfg.Database.Timeout)
	}
}

func TestLoadFromFile_OverridesEnv(t *testing.T) {
	t.Setenv("SCHOLARBOARD_HTTP_PORT", "9090")
	t.Setenv("SCHOLARBOARD_AUTH_SECRET", "env-secret")

	fileCfg := map[string]interface{}{
		"http": map[string]interface{}{"port": 7070},
		"auth": map[string]interface{}{"secret_key": "file-secret", "token_ttl": "1h"},
	}
	data, _ := json.Marshal(fileCfg)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.HTTP.Port != 7070 {
		t.Errorf("Expected file port to win, got %d", cfg.HTTP.Port)
	}
	if cfg.Auth.SecretKey != "file-secret" {
		t.Errorf("Expected file secret to win, got %q", cfg.Auth.SecretKey)
	}
}

func TestLoadConfigWithPrecedence_MissingFileFallsBack(t *testing.T) {
	t.Setenv("SCHOLARBOARD_AUTH_SECRET", "env-secret")

	cfg := LoadConfigWithPrecedence("/nonexistent/config.json")
	if cfg.Auth.SecretKey != "env-secret" {
		t.Errorf("Expected env fallback when file is missing, got %q", cfg.Auth.SecretKey)
	}
}
