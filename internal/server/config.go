package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-analyzer/internal/equity"
)

// Config is the complete service configuration.
type Config struct {
	Server Settings `hcl:"server,block"`
}

// Settings contains server-level configuration.
type Settings struct {
	Address           string `hcl:"address,optional"`
	Port              int    `hcl:"port,optional"`
	LogLevel          string `hcl:"log_level,optional"`
	StrategyTable     string `hcl:"strategy_table,optional"`
	DefaultIterations int    `hcl:"default_iterations,optional"`
	MaxIterations     int    `hcl:"max_iterations,optional"`
	StreamBatch       int    `hcl:"stream_batch,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Address:           "localhost",
			Port:              8080,
			LogLevel:          "info",
			StrategyTable:     "gto_ranges.json",
			DefaultIterations: 5000,
			MaxIterations:     equity.MaxIterations,
			StreamBatch:       1000,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults; a malformed one is an error.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig().Server
	if config.Server.Address == "" {
		config.Server.Address = defaults.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.LogLevel
	}
	if config.Server.StrategyTable == "" {
		config.Server.StrategyTable = defaults.StrategyTable
	}
	if config.Server.DefaultIterations == 0 {
		config.Server.DefaultIterations = defaults.DefaultIterations
	}
	if config.Server.MaxIterations == 0 {
		config.Server.MaxIterations = defaults.MaxIterations
	}
	if config.Server.StreamBatch == 0 {
		config.Server.StreamBatch = defaults.StreamBatch
	}

	return &config, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.DefaultIterations < equity.MinIterations || c.Server.DefaultIterations > equity.MaxIterations {
		return fmt.Errorf("default_iterations %d outside [%d, %d]",
			c.Server.DefaultIterations, equity.MinIterations, equity.MaxIterations)
	}
	if c.Server.MaxIterations < equity.MinIterations || c.Server.MaxIterations > equity.MaxIterations {
		return fmt.Errorf("max_iterations %d outside [%d, %d]",
			c.Server.MaxIterations, equity.MinIterations, equity.MaxIterations)
	}
	if c.Server.StreamBatch < 1 {
		return fmt.Errorf("stream_batch must be positive, got %d", c.Server.StreamBatch)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
