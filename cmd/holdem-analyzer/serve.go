package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/holdem-analyzer/internal/server"
	"github.com/lox/holdem-analyzer/internal/strategy"
)

type ServeCmd struct {
	Config string `short:"c" help:"HCL configuration file" default:"holdem.hcl"`
	Addr   string `help:"Listen address override, e.g. ':9090'"`
	Debug  bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
	// Optional .env for deployment environments; absence is fine.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	// Flag beats environment beats file.
	addr := os.Getenv("HOLDEM_ADDR")
	if c.Addr != "" {
		addr = c.Addr
	}
	if addr != "" {
		host, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", addr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid port in %q: %w", addr, err)
		}
		cfg.Server.Address = host
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Server.LogLevel, err)
	}
	if c.Debug {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	table, err := strategy.Load(cfg.Server.StrategyTable)
	if err != nil {
		return err
	}
	if table.Empty() {
		logger.Warn("Strategy table missing, spot analysis will answer with fold defaults",
			"path", cfg.Server.StrategyTable)
	} else {
		logger.Info("Strategy table loaded",
			"path", cfg.Server.StrategyTable,
			"scenarios", len(table.Scenarios()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, table, logger, nil)
	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
