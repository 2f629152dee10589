package cli

import (
	"github.com/spf13/cobra"

	"github.com/vytor/mathcat/internal/config"
	"github.com/vytor/mathcat/internal/logger"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var logLevel string
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:          "mathcat",
		Short:        "Practice sessions, score reconciliation and cat rewards",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger.SetDefault(logger.New(
				logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
				logger.WithColors(true),
				logger.WithOutput(cmd.ErrOrStderr()),
			))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "DEBUG, INFO, WARN or ERROR")
	cmd.AddCommand(newServeCmd(&cfg))
	cmd.AddCommand(newWhoamiCmd(&cfg))
	cmd.AddCommand(newLogoutCmd(&cfg))
	cmd.AddCommand(newTierCmd())
	return cmd
}
