package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	content := `
server {
  address            = "0.0.0.0"
  port               = 9090
  log_level          = "debug"
  strategy_table     = "/var/lib/holdem/ranges.json"
  default_iterations = 2000
  stream_batch       = 500
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/var/lib/holdem/ranges.json", cfg.Server.StrategyTable)
	assert.Equal(t, 2000, cfg.Server.DefaultIterations)
	assert.Equal(t, 500, cfg.Server.StreamBatch)
	// Unset fields pick up defaults.
	assert.Equal(t, DefaultConfig().Server.MaxIterations, cfg.Server.MaxIterations)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.DefaultIterations = 50
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.MaxIterations = 200000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.StreamBatch = 0
	assert.Error(t, cfg.Validate())
}
