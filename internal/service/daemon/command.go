package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-reminder/internal/api/grpc/control"
	"github.com/oshokin/alarm-reminder/internal/config"
	"github.com/oshokin/alarm-reminder/internal/display"
	"github.com/oshokin/alarm-reminder/internal/linesource"
	"github.com/oshokin/alarm-reminder/internal/logger"
	"github.com/oshokin/alarm-reminder/internal/service/common"
	"github.com/oshokin/alarm-reminder/internal/service/dispatcher"
	"github.com/oshokin/alarm-reminder/internal/service/scheduler"
	"github.com/oshokin/alarm-reminder/internal/service/sound"
	"github.com/oshokin/alarm-reminder/internal/version"
)

// Options controls the daemon process. Empty values keep the settings file values.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// AlarmInterval overrides the alarm interval, e.g. "13 minutes 40 seconds".
	AlarmInterval string
	// ReminderInterval overrides the reminder interval, e.g. "1m".
	ReminderInterval string
	// SoundFile overrides the alarm clip when not nil; an empty string selects the terminal bell.
	SoundFile *string
	// Repeat overrides how many times the clip is played.
	Repeat int
	// ListenAddress overrides the control endpoint address.
	ListenAddress string
	// LogLevel overrides the log level.
	LogLevel string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool

	// Input is the operator input, os.Stdin when nil.
	Input io.Reader
	// Output receives the reminder display, os.Stdout when nil.
	Output io.Writer
}

// Run starts the daemon and blocks until ctx is canceled or the scheduler stops.
func Run(ctx context.Context, opts *Options) error {
	session := uuid.NewString()
	ctx = logger.WithKV(logger.WithName(ctx, "alarm-reminder"), "session", session)

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.AllowMultiple {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Starting alarm reminder", "version", version.Short())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched, err := scheduler.Start(
		ctx,
		settings.AlarmInterval.Std(),
		settings.ReminderInterval.Std(),
		scheduler.WithSession(session),
	)
	if err != nil {
		return err
	}

	input, output := opts.Input, opts.Output
	if input == nil {
		input = os.Stdin
	}

	if output == nil {
		output = os.Stdout
	}

	lineSources := []<-chan string{linesource.FromReader(ctx, input)}

	var controlDone <-chan error

	if settings.Control.Address != "" {
		controlServer := control.NewServer(sched)

		controlDone, err = serveControl(ctx, &settings.Control, controlServer)
		if err != nil {
			cancel()

			return errors.Join(err, sched.Wait())
		}

		lineSources = append(lineSources, controlServer.Lines())
	}

	terminal := display.NewTerminal(output)
	player := sound.NewPlayer(settings.SoundCommand(), terminal)

	disp := dispatcher.New(
		dispatcher.Sources{
			Reminders: sched.Reminders(),
			Alarms:    sched.Alarms(),
			Lines:     linesource.Merge(ctx, lineSources...),
			Resets:    sched.Resets(),
		},
		terminal,
		player,
		dispatcher.Options{
			Clip:   settings.Sound.File,
			Repeat: settings.Sound.Repeat,
		},
	)

	// A fatal scheduler error stops the dispatcher as well.
	go func() {
		select {
		case <-sched.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	dispatchErr := disp.Run(ctx)

	cancel()

	err = errors.Join(dispatchErr, sched.Wait())
	if controlDone != nil {
		err = errors.Join(err, <-controlDone)
	}

	if err != nil {
		return fmt.Errorf("alarm reminder: %w", err)
	}

	logger.Info(ctx, "Alarm reminder stopped")

	return nil
}

// loadSettings reads the settings file and applies command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.AlarmInterval != "" {
		interval, err := config.ParseDuration(opts.AlarmInterval)
		if err != nil {
			return nil, fmt.Errorf("alarm interval: %w", err)
		}

		settings.AlarmInterval = config.Duration(interval)
	}

	if opts.ReminderInterval != "" {
		interval, err := config.ParseDuration(opts.ReminderInterval)
		if err != nil {
			return nil, fmt.Errorf("reminder interval: %w", err)
		}

		settings.ReminderInterval = config.Duration(interval)
	}

	if opts.SoundFile != nil {
		settings.Sound.File = *opts.SoundFile
	}

	if opts.Repeat != 0 {
		settings.Sound.Repeat = opts.Repeat
	}

	if opts.ListenAddress != "" {
		settings.Control.Address = opts.ListenAddress
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	if err = config.Validate(settings); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return settings, nil
}
