package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-reminder/internal/config"
	"github.com/oshokin/alarm-reminder/internal/service/checker"
	"github.com/oshokin/alarm-reminder/internal/service/client"
	"github.com/oshokin/alarm-reminder/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// watch keeps polling and prints every change.
	watch bool
	// interval is the polling interval in watch mode.
	interval time.Duration

	// rootCmd represents the base command.
	rootCmd = &cobra.Command{
		Use:   "alarm-status [server-address]",
		Short: "Show the alarm cycle of a running alarm-reminder.",
		Long: `Prints the current cycle number, its phase (arming or awaiting-reset), when the
cycle started and when the alarm fired. With --watch the status is polled and a
line is printed whenever the cycle or the phase changes, until interrupted.
Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			if watch {
				return checker.Run(ctx, &checker.Options{
					ConfigPath:    cfgPath,
					ServerAddress: serverAddress,
					PollInterval:  interval,
				}, cmd.OutOrStdout())
			}

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Action:        client.ActionStatus,
			}, cmd.OutOrStdout())
		},
	}
)

// Execute runs the alarm-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling and print every change")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", checker.DefaultPollInterval, "polling interval for --watch")
}
