package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for onionwatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onionwatch",
		Short: "Keyword and sentiment monitor for Tor hidden services",
		Long: `onionwatch fetches Tor hidden services through a local Tor proxy, detects
keywords in their text, classifies the sentiment of each page and keeps
the findings in a local database. Stored findings can be mailed or sent to
Telegram.

Secrets are read from the environment (EMAIL_ADDRESS, EMAIL_APP_PASSWORD,
TOR_CONTROL_PASSWORD, TELEGRAM_BOT_TOKEN) or from the configuration file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default: .onionwatch or XDG config)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewInteractiveCmd())
	cmd.AddCommand(NewRecordsCmd())
	cmd.AddCommand(NewNotifyCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
