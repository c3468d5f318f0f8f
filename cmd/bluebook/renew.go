package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/bluebook/internal/config"
	"github.com/mark3labs/bluebook/internal/template"
	"github.com/mark3labs/bluebook/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var renewFlags struct {
	gateway string
	dataDir string
	splash  bool
}

var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Start the bluebook renewal wizard",
	Long: `Start the full-screen renewal wizard.

The wizard walks through personal information, vehicle details and pickup
details, then submits the request. With the default nats gateway the request
is recorded in the local request log and the on_submit hooks of
.bluebook.hooks.yml are run.`,
	RunE: runRenew,
}

func init() {
	renewCmd.Flags().StringVarP(&renewFlags.gateway, "gateway", "g", "", "Submission gateway: nats or simulated (default: from config)")
	renewCmd.Flags().StringVar(&renewFlags.dataDir, "data-dir", "", "Request log directory (default: from config)")
	renewCmd.Flags().BoolVar(&renewFlags.splash, "splash", true, "Show the splash screen")
}

func runRenew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if renewFlags.gateway != "" {
			cfg.Gateway = renewFlags.gateway
		}
		if renewFlags.dataDir != "" {
			cfg.DataDir = renewFlags.dataDir
		}
	})
	if err != nil {
		return err
	}

	now, err := clock(cfg)
	if err != nil {
		return err
	}

	receipt, err := template.GetTemplate(cfg.ReceiptTemplate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, _, cleanup, err := buildGateway(ctx, cfg, now)
	if err != nil {
		return err
	}
	defer cleanup()

	return wizard.Run(ctx, wizard.Options{
		Gateway:         gw,
		SplashDelay:     cfg.SplashDelay,
		SkipSplash:      !renewFlags.splash,
		ReceiptTemplate: receipt,
		Now:             now,
	})
}
