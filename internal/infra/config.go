package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all relay settings. It is built once at startup, overridden
// from environment variables, and treated as immutable afterwards; handlers
// receive it explicitly instead of reading ambient state.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Env     string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Webhook struct {
		// Shared secret expected in every TradingView payload.
		// Empty disables the check (local testing only).
		Secret string `yaml:"secret"`
	} `yaml:"webhook"`

	API struct {
		Bitget struct {
			RestURL     string `yaml:"rest_url"`
			AccessKey   string `yaml:"access_key"`
			SecretKey   string `yaml:"secret_key"`
			Passphrase  string `yaml:"passphrase"`
			ProductType string `yaml:"product_type"` // umcbl, dmcbl, cmcbl
			MarginCoin  string `yaml:"margin_coin"`
			TimeoutSec  int    `yaml:"timeout_sec"`
		} `yaml:"bitget"`
	} `yaml:"api"`

	Execution struct {
		Mode string `yaml:"mode"` // "live" or "paper"
	} `yaml:"execution"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "tv-bitget-relay"
	cfg.App.Env = "prod"
	cfg.Server.Addr = ":8080"
	cfg.API.Bitget.RestURL = "https://api.bitget.com"
	cfg.API.Bitget.ProductType = "umcbl"
	cfg.API.Bitget.MarginCoin = "USDT"
	cfg.API.Bitget.TimeoutSec = 10
	cfg.Execution.Mode = "live"
	cfg.Logging.Level = "info"
	return cfg
}

// LoadConfig reads the config file, applies env overrides and validates.
// A missing file is not an error; the relay can run from env alone.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only deployment
	default:
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}

	switch c.API.Bitget.ProductType {
	case "umcbl", "dmcbl", "cmcbl":
	default:
		return fmt.Errorf("unknown product type: %s", c.API.Bitget.ProductType)
	}

	switch c.Execution.Mode {
	case "live", "paper":
	default:
		return fmt.Errorf("execution mode must be live or paper, got %s", c.Execution.Mode)
	}

	if c.API.Bitget.TimeoutSec <= 0 {
		return fmt.Errorf("bitget timeout must be positive")
	}

	return nil
}

// HasCredentials reports whether all three exchange credentials are set.
func (c *Config) HasCredentials() bool {
	b := c.API.Bitget
	return b.AccessKey != "" && b.SecretKey != "" && b.Passphrase != ""
}

// overrideWithEnv applies environment variables over file values.
// The names match what the deployment scripts already export.
func overrideWithEnv(cfg *Config) {
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		cfg.Webhook.Secret = secret
	}
	if key := os.Getenv("BITGET_API_KEY"); key != "" {
		cfg.API.Bitget.AccessKey = key
	}
	if secret := os.Getenv("BITGET_API_SECRET"); secret != "" {
		cfg.API.Bitget.SecretKey = secret
	}
	if pass := os.Getenv("BITGET_PASSPHRASE"); pass != "" {
		cfg.API.Bitget.Passphrase = pass
	}
	if base := os.Getenv("BITGET_BASE_URL"); base != "" {
		cfg.API.Bitget.RestURL = base
	}
	if pt := os.Getenv("PRODUCT_TYPE"); pt != "" {
		cfg.API.Bitget.ProductType = pt
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.App.Env = env
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
}
