package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/bluebook/internal/config"
	"github.com/mark3labs/bluebook/internal/gateway"
	"github.com/mark3labs/bluebook/internal/hooks"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/nats"
	"github.com/mark3labs/bluebook/internal/requests"
)

// loadConfig loads the layered configuration, lets the command's flags
// override it and configures the logger.
func loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// clock returns "now" in the configured timezone.
func clock(cfg *config.Config) (func() time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

// openStore starts the embedded JetStream in cfg.DataDir.
func openStore(ctx context.Context, cfg *config.Config) (*requests.Store, func(), error) {
	e, err := nats.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open request log in %s: %w", cfg.DataDir, err)
	}
	cleanup := func() {
		if err := e.Close(); err != nil {
			logger.Warn("Error closing request log: %v", err)
		}
	}
	return requests.NewStore(e.JetStream, e.Stream), cleanup, nil
}

// buildGateway returns the configured gateway and a cleanup function.
func buildGateway(ctx context.Context, cfg *config.Config, now func() time.Time) (gateway.Gateway, *requests.Store, func(), error) {
	if cfg.Gateway == config.GatewaySimulated {
		logger.Info("Using simulated gateway (latency %s)", cfg.SimulatedLatency)
		return gateway.NewSimulated(cfg.SimulatedLatency), nil, func() {}, nil
	}

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []gateway.JetStreamOption{gateway.WithClock(now)}
	workDir, err := os.Getwd()
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	hookCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if hookCfg != nil {
		opts = append(opts, gateway.WithHooks(hookCfg, workDir))
	}

	return gateway.NewJetStream(store, opts...), store, cleanup, nil
}
