package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/alarm-reminder/internal/config"
	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/logger"
	"github.com/oshokin/alarm-reminder/internal/service/client"
	"github.com/oshokin/alarm-reminder/internal/service/common"
)

// Options controls the checker polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional control address override.
	ServerAddress string
	// PollInterval defines the interval between status checks.
	PollInterval time.Duration
	// Dial lists extra client options, used by tests to connect in memory.
	Dial []common.Option
}

// DefaultPollInterval defines the polling interval when none is given.
const DefaultPollInterval = 5 * time.Second

// errNoControlAddress is returned when neither flag nor config name the endpoint.
var errNoControlAddress = errors.New("control address is not configured, use --server or control.address")

// Run polls the scheduler status and prints every change until ctx is canceled.
// Failed polls are logged and retried on the next tick.
func Run(ctx context.Context, opts *Options, out io.Writer) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-status")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = config.Validate(cfg); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.Control.Address
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	if serverAddress == "" {
		return errNoControlAddress
	}

	// Establish gRPC connection with timeout from configuration.
	dialOptions := append([]common.Option{common.WithCallTimeout(cfg.Control.Timeout)}, opts.Dial...)

	c, err := common.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return fmt.Errorf("dial daemon: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = c.Close()
	}()

	logger.InfoKV(ctx, "Watching alarm cycle", "server_address", serverAddress, "interval", pollInterval.String())

	w := &watcher{client: c, out: out}

	// Check right away, then on every tick.
	if err = w.check(ctx); err != nil {
		logger.ErrorKV(ctx, "Check status failed", "error", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			if err = w.check(ctx); err != nil {
				logger.ErrorKV(ctx, "Check status failed", "error", err)
			}
		}
	}
}

// watcher remembers the last printed state.
type watcher struct {
	client *common.Client
	out    io.Writer

	seen bool
	last domain.Status
}

// check prints the status when the session, cycle or phase differ from the last one printed.
func (w *watcher) check(ctx context.Context) error {
	status, err := w.client.Status(ctx)
	if err != nil {
		return err
	}

	if w.seen && !changed(w.last, *status) {
		return nil
	}

	w.seen, w.last = true, *status

	_, err = fmt.Fprintln(w.out, client.FormatStatus(status))

	return err
}

func changed(previous, current domain.Status) bool {
	return previous.Session != current.Session ||
		previous.Cycle != current.Cycle ||
		previous.Phase != current.Phase
}
