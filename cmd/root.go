// Package cmd wires the shopchat commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/shopchat/config"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "Storefront chat assistant in your terminal",
	Long: `shopchat is a storefront shopping assistant rendered as a terminal
widget. Type to the assistant, attach product photos, record voice
notes, and browse search results without leaving the shell.

Running shopchat with no subcommand opens the chat widget.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if configDir != "" {
			config.SetConfigDir(configDir)
		}
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Override the config directory (default ~/.shopchat)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
