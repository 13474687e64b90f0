// Package config provides YOURLS-MCP server configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	appconfig "github.com/RobinCoderZhao/yourls-mcp/pkg/config"
)

// Config is the full server configuration.
type Config struct {
	YOURLS YOURLSConfig `yaml:"yourls"`
	Server ServerConfig `yaml:"server"`
}

// YOURLSConfig holds the connection settings for the YOURLS instance.
type YOURLSConfig struct {
	APIURL         string `yaml:"api_url" env:"YOURLS_API_URL"`
	AuthMode       string `yaml:"auth_mode" env:"YOURLS_AUTH_MODE"` // "password" or "signature"
	Username       string `yaml:"username" env:"YOURLS_USERNAME"`
	Password       string `yaml:"password" env:"YOURLS_PASSWORD"`
	SignatureToken string `yaml:"signature_token" env:"YOURLS_SIGNATURE_TOKEN"`
	SignatureTTL   int    `yaml:"signature_ttl" env:"YOURLS_SIGNATURE_TTL"` // seconds
	Timeout        int    `yaml:"timeout" env:"YOURLS_TIMEOUT"`             // seconds
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	HTTPAddr  string `yaml:"http_addr" env:"YOURLS_MCP_HTTP_ADDR"`
	AuthToken string `yaml:"auth_token" env:"YOURLS_MCP_AUTH_TOKEN"`
	Debug     bool   `yaml:"debug" env:"YOURLS_MCP_DEBUG"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.YOURLS.AuthMode = string(yourls.AuthPassword)
	cfg.YOURLS.SignatureTTL = 43200 // YOURLS' default nonce life, 12h
	cfg.YOURLS.Timeout = 30
	return cfg
}

// Load reads configuration from an explicit path, or from the standard
// locations (./config.yaml, ~/.config/yourls-mcp/config.yaml), applying
// .env and environment overrides. Validation happens before the core is
// constructed: a missing credential is a startup error, never a runtime one.
func Load(path string) (Config, error) {
	appconfig.LoadDotenv()

	cfg := DefaultConfig()

	if path == "" {
		home, err := os.UserHomeDir()
		var homePath string
		if err == nil {
			homePath = filepath.Join(home, ".config", "yourls-mcp", "config.yaml")
		}
		path = appconfig.FirstExisting("config.yaml", homePath)
	}

	if err := appconfig.LoadOrDefault(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate delegates credential checks to the client config rules.
func (c Config) Validate() error {
	if c.YOURLS.APIURL == "" {
		return fmt.Errorf("config: yourls.api_url (or YOURLS_API_URL) is required")
	}
	return c.ClientConfig().Validate()
}

// ClientConfig converts the loaded settings into a yourls.Config.
func (c Config) ClientConfig() yourls.Config {
	return yourls.Config{
		APIURL:         c.YOURLS.APIURL,
		AuthMode:       yourls.AuthMode(c.YOURLS.AuthMode),
		Username:       c.YOURLS.Username,
		Password:       c.YOURLS.Password,
		SignatureToken: c.YOURLS.SignatureToken,
		SignatureTTL:   time.Duration(c.YOURLS.SignatureTTL) * time.Second,
		Timeout:        time.Duration(c.YOURLS.Timeout) * time.Second,
	}
}
