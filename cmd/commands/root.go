package commands

import (
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configFile string

	// Define root command
	rootCmd := &cobra.Command{
		Use:           "remind",
		Short:         "Task reminder service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.SetPath(configFile)
			logger.SetVersion(version.GetVersionInfo().Version)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "", "config file path (default: search ./config.yaml, $HOME/.remind, /etc/remind)")

	// Add subcommands
	rootCmd.AddCommand(
		NewServeCommand(),
		NewSendCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
