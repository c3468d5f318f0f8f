package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/bluebook/internal/config"
	"github.com/mark3labs/bluebook/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	port    int
	gateway string
	dataDir string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the renewal tools over MCP",
	Long: `Serve validation and submission tools over MCP streamable HTTP on
127.0.0.1. Requests submitted here follow the same rules as the wizard and
go through the configured gateway.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVar(&mcpFlags.port, "port", 8765, "Port to listen on (0 picks a free port)")
	mcpCmd.Flags().StringVarP(&mcpFlags.gateway, "gateway", "g", "", "Submission gateway: nats or simulated (default: from config)")
	mcpCmd.Flags().StringVar(&mcpFlags.dataDir, "data-dir", "", "Request log directory (default: from config)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if mcpFlags.gateway != "" {
			cfg.Gateway = mcpFlags.gateway
		}
		if mcpFlags.dataDir != "" {
			cfg.DataDir = mcpFlags.dataDir
		}
	})
	if err != nil {
		return err
	}

	now, err := clock(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, store, cleanup, err := buildGateway(ctx, cfg, now)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := []mcpserver.Option{mcpserver.WithClock(now)}
	if store != nil {
		opts = append(opts, mcpserver.WithStore(store))
	}
	srv := mcpserver.New(gw, opts...)
	if _, err := srv.Start(ctx, mcpFlags.port); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening at %s\n", srv.URL())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	<-ctx.Done()
	return srv.Stop()
}
