package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/bluebook/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create bluebook configuration file",
	Long: `Create a bluebook configuration file with the default settings.

By default, creates a global config at ~/.config/bluebook/bluebook.yml.
Use --project to create a project-local config in the current directory.

Keys written to the file:
  data_dir           Directory holding the embedded request store (.bluebook)
  gateway            Submission backend: nats or simulated (nats)
  simulated_latency  Delay before the simulated gateway answers (2s)
  splash_delay       How long the splash screen stays up (3.5s)
  timezone           IANA zone that decides "today" for date checks (Local)
  log_level          debug, info, warn or error (info)
  log_file           Write logs to this file, empty disables logging
  receipt_template   Optional markdown template for the confirmation receipt

Every key can also be set with a BLUEBOOK_ prefixed environment variable.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Default()

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n\n", targetPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'bluebook renew' to get started.")
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
