package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://api.bitget.com", cfg.API.Bitget.RestURL)
	assert.Equal(t, "umcbl", cfg.API.Bitget.ProductType)
	assert.Equal(t, "USDT", cfg.API.Bitget.MarginCoin)
	assert.Equal(t, "live", cfg.Execution.Mode)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  name: relay
  env: staging
webhook:
  secret: file-secret
api:
  bitget:
    access_key: file-key
    product_type: dmcbl
execution:
  mode: paper
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	t.Setenv("WEBHOOK_SECRET", "env-secret")
	t.Setenv("BITGET_API_KEY", "env-key")
	t.Setenv("BITGET_API_SECRET", "env-sec")
	t.Setenv("BITGET_PASSPHRASE", "env-pass")
	t.Setenv("BITGET_BASE_URL", "http://localhost:9999")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// env beats file
	assert.Equal(t, "env-secret", cfg.Webhook.Secret)
	assert.Equal(t, "env-key", cfg.API.Bitget.AccessKey)
	assert.Equal(t, "http://localhost:9999", cfg.API.Bitget.RestURL)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	// file beats defaults
	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "dmcbl", cfg.API.Bitget.ProductType)
	assert.Equal(t, "paper", cfg.Execution.Mode)

	assert.True(t, cfg.HasCredentials())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults are valid", func(c *Config) {}, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, false},
		{"bad product type", func(c *Config) { c.API.Bitget.ProductType = "spot" }, false},
		{"bad mode", func(c *Config) { c.Execution.Mode = "dry" }, false},
		{"zero timeout", func(c *Config) { c.API.Bitget.TimeoutSec = 0 }, false},
		{"paper mode", func(c *Config) { c.Execution.Mode = "paper" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfig_HasCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.HasCredentials())

	cfg.API.Bitget.AccessKey = "k"
	cfg.API.Bitget.SecretKey = "s"
	assert.False(t, cfg.HasCredentials())

	cfg.API.Bitget.Passphrase = "p"
	assert.True(t, cfg.HasCredentials())
}
