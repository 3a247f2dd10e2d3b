package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/alarm-reminder/internal/config"
	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/logger"
	"github.com/oshokin/alarm-reminder/internal/service/common"
)

// Action selects what the command asks the daemon.
type Action int

const (
	// ActionStatus prints the scheduler state.
	ActionStatus Action = iota
	// ActionReset acknowledges the alarm and prints the state observed by the daemon.
	ActionReset
)

// Options configures a single control command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides the control address from config when specified.
	ServerAddress string

	// Action is the request sent to the daemon.
	Action Action

	// Dial lists extra client options, used by tests to connect in memory.
	Dial []common.Option
}

var (
	errNoControlAddress = errors.New("control address is not configured, use --server or control.address")
	errUnknownAction    = errors.New("unknown action")
)

// Run performs the requested action once and writes a human-readable result to out.
func Run(ctx context.Context, opts *Options, out io.Writer) error {
	ctx = logger.WithName(ctx, "alarm-control")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = config.Validate(cfg); err != nil {
		return err
	}

	serverAddress := cfg.Control.Address
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	if serverAddress == "" {
		return errNoControlAddress
	}

	dialOptions := append([]common.Option{common.WithCallTimeout(cfg.Control.Timeout)}, opts.Dial...)

	client, err := common.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	switch opts.Action {
	case ActionStatus:
		status, err := client.Status(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, FormatStatus(status))

		return err
	case ActionReset:
		actor, err := common.DetectActor()
		if err != nil {
			return err
		}

		logger.InfoKV(ctx, "Sending reset", "server_address", serverAddress, "actor", actor.Username)

		result, err := client.Reset(ctx, actor)
		if err != nil {
			return err
		}

		verdict := "reset accepted, new cycle armed"
		if !result.Accepted {
			verdict = "reset ignored, alarm has not fired yet"
		}

		_, err = fmt.Fprintf(out, "%s: %s\n", verdict, FormatStatus(&result.Status))

		return err
	default:
		return fmt.Errorf("%w: %d", errUnknownAction, opts.Action)
	}
}

// FormatStatus converts a scheduler snapshot to a one-line summary.
func FormatStatus(status *domain.Status) string {
	if status == nil {
		return "<nil status>"
	}

	started := "<unknown>"
	if !status.CycleStartedAt.IsZero() {
		started = status.CycleStartedAt.Local().Format(time.DateTime)
	}

	summary := fmt.Sprintf("cycle %d %s since %s", status.Cycle, status.Phase, started)

	if status.Phase == domain.PhaseAwaitingReset && !status.AlarmFiredAt.IsZero() {
		summary += ", alarm fired at " + status.AlarmFiredAt.Local().Format(time.DateTime)
	}

	if status.Session != "" {
		summary += " (session " + status.Session + ")"
	}

	return summary
}
