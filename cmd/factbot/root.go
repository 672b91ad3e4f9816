package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/factbot/core/cmd"
	"github.com/m3rciful/factbot/internal/app"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "factbot",
	Short:         "Telegram bot that replies with facts from a chosen category",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Telegram bot (default)",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (overrides CONFIG_PATH)")
	rootCmd.AddCommand(runCmd)
}

func runBot(_ *cobra.Command, _ []string) error {
	return corecmd.Run(app.RunOptions(configPath))
}
