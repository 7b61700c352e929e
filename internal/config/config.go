package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the system-wide settings coordinator.
type Config struct {
	Database  *DatabaseConfig  `json:"database"`
	HTTP      *HTTPConfig      `json:"http"`
	WebSocket *WebSocketConfig `json:"websocket"`
	Auth      *AuthConfig      `json:"auth"`
	Email     *EmailConfig     `json:"email"`
}

type DatabaseConfig struct {
	Path    string        `json:"path"`
	Timeout time.Duration `json:"timeout"`
}

type HTTPConfig struct {
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	Host         string        `json:"host"`
}

type WebSocketConfig struct {
	PingInterval     time.Duration `json:"ping_interval"`
	ReadTimeout      time.Duration `json:"read_timeout"`
	WriteTimeout     time.Duration `json:"write_timeout"`
	HandshakeTimeout time.Duration `json:"handshake_timeout"`
	BufferSize       int           `json:"buffer_size"`
}

// AuthConfig drives credential-token issue and verification.
type AuthConfig struct {
	SecretKey string        `json:"secret_key"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// EmailConfig selects the mail backend. An empty SendGridKey falls back to
// the console sender.
type EmailConfig struct {
	SendGridKey string `json:"sendgrid_key"`
	FromAddress string `json:"from_address"`
	AppName     string `json:"app_name"`
}

// DefaultConfig returns production-ready defaults. The auth secret has no
// default; deployments must set SCHOLARBOARD_AUTH_SECRET.
func DefaultConfig() *Config {
	return &Config{
		Database: &DatabaseConfig{
			Path:    "./scholarboard.db",
			Timeout: 30 * time.Second,
		},
		HTTP: &HTTPConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Host:         "0.0.0.0",
		},
		WebSocket: &WebSocketConfig{
			PingInterval:     30 * time.Second,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     10 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			BufferSize:       100,
		},
		Auth: &AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Email: &EmailConfig{
			FromAddress: "noreply@scholarboard.local",
			AppName:     "Scholarboard",
		},
	}
}

// Validate catches invalid configurations before component initialization.
func (c *Config) Validate() error {
	if c.Database == nil {
		return fmt.Errorf("database configuration is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Database.Timeout <= 0 {
		return fmt.Errorf("database timeout must be positive")
	}

	if c.HTTP == nil {
		return fmt.Errorf("HTTP configuration is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}
	if c.HTTP.Host == "" {
		return fmt.Errorf("HTTP host cannot be empty")
	}

	if c.WebSocket == nil {
		return fmt.Errorf("WebSocket configuration is required")
	}
	if c.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("WebSocket ping interval must be positive")
	}
	if c.WebSocket.ReadTimeout <= 0 || c.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("WebSocket timeouts must be positive")
	}
	if c.WebSocket.HandshakeTimeout <= 0 {
		return fmt.Errorf("WebSocket handshake timeout must be positive")
	}
	if c.WebSocket.BufferSize <= 0 {
		return fmt.Errorf("WebSocket buffer size must be positive")
	}

	if c.Auth == nil {
		return fmt.Errorf("auth configuration is required")
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth secret key cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token TTL must be positive")
	}

	if c.Email == nil {
		return fmt.Errorf("email configuration is required")
	}
	if c.Email.FromAddress == "" {
		return fmt.Errorf("email from address cannot be empty")
	}

	return nil
}

// LoadFromEnv overrides defaults with SCHOLARBOARD_* environment variables.
func LoadFromEnv() *Config {
	config := DefaultConfig()

	if port := os.Getenv("SCHOLARBOARD_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.HTTP.Port = p
		}
	}
	if host := os.Getenv("SCHOLARBOARD_HTTP_HOST"); host != "" {
		config.HTTP.Host = host
	}
	if dbPath := os.Getenv("SCHOLARBOARD_DATABASE_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}
	if dbTimeout := os.Getenv("SCHOLARBOARD_DATABASE_TIMEOUT"); dbTimeout != "" {
		if timeout, err := time.ParseDuration(dbTimeout); err == nil {
			config.Database.Timeout = timeout
		}
	}
	if readTimeout := os.Getenv("SCHOLARBOARD_HTTP_READ_TIMEOUT"); readTimeout != "" {
		if timeout, err := time.ParseDuration(readTimeout); err == nil {
			config.HTTP.ReadTimeout = timeout
		}
	}
	if writeTimeout := os.Getenv("SCHOLARBOARD_HTTP_WRITE_TIMEOUT"); writeTimeout != "" {
		if timeout, err := time.ParseDuration(writeTimeout); err == nil {
			config.HTTP.WriteTimeout = timeout
		}
	}
	if pingInterval := os.Getenv("SCHOLARBOARD_WEBSOCKET_PING_INTERVAL"); pingInterval != "" {
		if interval, err := time.ParseDuration(pingInterval); err == nil {
			config.WebSocket.PingInterval = interval
		}
	}
	if wsReadTimeout := os.Getenv("SCHOLARBOARD_WEBSOCKET_READ_TIMEOUT"); wsReadTimeout != "" {
		if timeout, err := time.ParseDuration(wsReadTimeout); err == nil {
			config.WebSocket.ReadTimeout = timeout
		}
	}
	if wsWriteTimeout := os.Getenv("SCHOLARBOARD_WEBSOCKET_WRITE_TIMEOUT"); wsWriteTimeout != "" {
		if timeout, err := time.ParseDuration(wsWriteTimeout); err == nil {
			config.WebSocket.WriteTimeout = timeout
		}
	}
	if handshake := os.Getenv("SCHOLARBOARD_WEBSOCKET_HANDSHAKE_TIMEOUT"); handshake != "" {
		if timeout, err := time.ParseDuration(handshake); err == nil {
			config.WebSocket.HandshakeTimeout = timeout
		}
	}
	if bufferSize := os.Getenv("SCHOLARBOARD_WEBSOCKET_BUFFER_SIZE"); bufferSize != "" {
		if size, err := strconv.Atoi(bufferSize); err == nil {
			config.WebSocket.BufferSize = size
		}
	}
	if secret := os.Getenv("SCHOLARBOARD_AUTH_SECRET"); secret != "" {
		config.Auth.SecretKey = secret
	}
	if ttl := os.Getenv("SCHOLARBOARD_AUTH_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Auth.TokenTTL = d
		}
	}
	if key := os.Getenv("SCHOLARBOARD_SENDGRID_KEY"); key != "" {
		config.Email.SendGridKey = key
	}
	if from := os.Getenv("SCHOLARBOARD_EMAIL_FROM"); from != "" {
		config.Email.FromAddress = from
	}

	return config
}

// ConfigFile mirrors Config with string durations for JSON parsing.
type ConfigFile struct {
	Database  *DatabaseConfigFile  `json:"database"`
	HTTP      *HTTPConfigFile      `json:"http"`
	WebSocket *WebSocketConfigFile `json:"websocket"`
	Auth      *AuthConfigFile      `json:"auth"`
	Email     *EmailConfig         `json:"email"`
}

type DatabaseConfigFile struct {
	Path    string `json:"path"`
	Timeout string `json:"timeout"`
}

type HTTPConfigFile struct {
	Port         int    `json:"port"`
	ReadTimeout  string `json:"read_timeout"`
	WriteTimeout string `json:"write_timeout"`
	Host         string `json:"host"`
}

type WebSocketConfigFile struct {
	PingInterval     string `json:"ping_interval"`
	ReadTimeout      string `json:"read_timeout"`
	WriteTimeout     string `json:"write_timeout"`
	HandshakeTimeout string `json:"handshake_timeout"`
	BufferSize       int    `json:"buffer_size"`
}

type AuthConfigFile struct {
	SecretKey string `json:"secret_key"`
	TokenTTL  string `json:"token_ttl"`
}

// LoadFromFile reads a JSON configuration file over env-derived settings.
func LoadFromFile(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var configFile ConfigFile
	if err := json.Unmarshal(data, &configFile); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filepath, err)
	}

	config := LoadFromEnv()

	if configFile.Database != nil {
		if configFile.Database.Path != "" {
			config.Database.Path = configFile.Database.Path
		}
		if d, err := time.ParseDuration(configFile.Database.Timeout); err == nil {
			config.Database.Timeout = d
		}
	}
	if configFile.HTTP != nil {
		if configFile.HTTP.Port > 0 {
			config.HTTP.Port = configFile.HTTP.Port
		}
		if configFile.HTTP.Host != "" {
			config.HTTP.Host = configFile.HTTP.Host
		}
		if d, err := time.ParseDuration(configFile.HTTP.ReadTimeout); err == nil {
			config.HTTP.ReadTimeout = d
		}
		if d, err := time.ParseDuration(configFile.HTTP.WriteTimeout); err == nil {
			config.HTTP.WriteTimeout = d
		}
	}
	if configFile.WebSocket != nil {
		if configFile.WebSocket.BufferSize > 0 {
			config.WebSocket.BufferSize = configFile.WebSocket.BufferSize
		}
		if d, err := time.ParseDuration(configFile.WebSocket.PingInterval); err == nil {
			config.WebSocket.PingInterval = d
		}
		if d, err := time.ParseDuration(configFile.WebSocket.ReadTimeout); err == nil {
			config.WebSocket.ReadTimeout = d
		}
		if d, err := time.ParseDuration(configFile.WebSocket.WriteTimeout); err == nil {
			config.WebSocket.WriteTimeout = d
		}
		if d, err := time.ParseDuration(configFile.WebSocket.HandshakeTimeout); err == nil {
			config.WebSocket.HandshakeTimeout = d
		}
	}
	if configFile.Auth != nil {
		if configFile.Auth.SecretKey != "" {
			config.Auth.SecretKey = configFile.Auth.SecretKey
		}
		if d, err := time.ParseDuration(configFile.Auth.TokenTTL); err == nil {
			config.Auth.TokenTTL = d
		}
	}
	if configFile.Email != nil {
		if configFile.Email.SendGridKey != "" {
			config.Email.SendGridKey = configFile.Email.SendGridKey
		}
		if configFile.Email.FromAddress != "" {
			config.Email.FromAddress = configFile.Email.FromAddress
		}
		if configFile.Email.AppName != "" {
			config.Email.AppName = configFile.Email.AppName
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filepath, err)
	}

	return config, nil
}

// LoadConfigWithPrecedence resolves configuration as file > environment >
// defaults. File errors are ignored so env/defaults still work.
func LoadConfigWithPrecedence(filepath string) *Config {
	config := LoadFromEnv()

	if filepath != "" {
		if fileConfig, err := LoadFromFile(filepath); err == nil {
			config = fileConfig
		}
	}

	return config
}
