package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▄ █   █ █ █▀▀ █▀▄ █▀█ █▀█ █ █"
	logoText2 = "█▀▄ █▄▄ █▄█ ██▄ █▀▄ █▄█ █▄█ █▀▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bluebook",
	Short: "Doorstep bluebook renewal requests from the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Tertiary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Tertiary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

bluebook collects a vehicle bluebook renewal request in three steps
(personal information, vehicle details, pickup details) and files it for
doorstep pickup. Requests are kept in an embedded NATS JetStream log and can
be listed, inspected, or submitted by assistants over MCP.`

	rootCmd.AddCommand(renewCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(mcpCmd)
}
