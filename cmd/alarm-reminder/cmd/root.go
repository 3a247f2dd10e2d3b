package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-reminder/internal/config"
	"github.com/oshokin/alarm-reminder/internal/service/daemon"
	"github.com/oshokin/alarm-reminder/internal/version"
)

var (
	// options collects flag values for the daemon.
	options = new(daemon.Options)
	// soundFile is copied into options only when the flag is set.
	soundFile string

	// rootCmd represents the base command for running the reminder daemon.
	rootCmd = &cobra.Command{
		Use:   "alarm-reminder",
		Short: "Print periodic reminders and ring an alarm until it is acknowledged.",
		Long: `Runs the alarm cycle in this terminal.

Every reminder interval a numbered line with the current time is printed.
When the alarm interval elapses the alarm banner is shown and the sound is played,
while reminders keep coming. Type "r" and press Enter to acknowledge the alarm
and start a new cycle; "r" typed before the alarm is ignored.

Durations accept Go syntax ("13m40s") or words ("13 minutes 40 seconds").
With a control address configured, alarm-reset and alarm-status work remotely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if cmd.Flags().Changed("sound") {
				options.SoundFile = &soundFile
			}

			return daemon.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-reminder CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	// Setup command flags with consistent naming and descriptions.
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.AlarmInterval, "alarm", "a", "", "time from arming to the alarm, e.g. \"13 minutes 40 seconds\"")
	flags.StringVarP(&options.ReminderInterval, "reminder", "r", "", "reminder cadence, e.g. \"1 minute\"")
	flags.StringVarP(&soundFile, "sound", "s", "", "alarm clip to play, empty for the terminal bell")
	flags.IntVar(&options.Repeat, "repeat", 0, "how many times the clip is played per alarm")
	flags.StringVarP(&options.ListenAddress, "listen", "l", "", "control endpoint address, e.g. 127.0.0.1:7070")
	flags.StringVar(&options.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	// Hidden flag to run several daemons side by side.
	flags.BoolVar(&options.AllowMultiple, "allow-multiple", false, "skip the single-instance check")

	err := flags.MarkHidden("allow-multiple")
	if err != nil {
		panic(err)
	}
}
