package dispatcher

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/logger"
)

// ErrChannelClosed reports that an event stream owned by the scheduler was closed.
var ErrChannelClosed = errors.New("event stream closed unexpectedly")

// SoundPlayer plays the alarm clip. Calls run detached from the dispatch loop.
type SoundPlayer interface {
	Play(ctx context.Context, clip string, repeat int) error
}

// Display renders events for the operator.
type Display interface {
	Reminder(event domain.TickEvent)
	Alarm(event domain.AlarmEvent)
	Separator()
}

// Sources are the channel endpoints the dispatcher consumes and feeds.
type Sources struct {
	// Reminders carries reminder ticks from the scheduler.
	Reminders <-chan domain.TickEvent
	// Alarms carries fired alarms from the scheduler.
	Alarms <-chan domain.AlarmEvent
	// Lines carries raw operator input.
	Lines <-chan string
	// Resets is the scheduler's reset input.
	Resets chan<- domain.ResetCommand
}

// Options configures the alarm sound.
type Options struct {
	// Clip is passed to the player as the sound to play.
	Clip string
	// Repeat is how many times the clip is played per alarm.
	Repeat int
}

// Dispatcher is the single consumer of the scheduler's streams.
type Dispatcher struct {
	sources Sources
	display Display
	player  SoundPlayer
	opts    Options
}

// New creates a dispatcher over the given sources.
func New(sources Sources, display Display, player SoundPlayer, opts Options) *Dispatcher {
	return &Dispatcher{
		sources: sources,
		display: display,
		player:  player,
		opts:    opts,
	}
}

// Run dispatches events until ctx is canceled or a scheduler stream closes.
//
// Resets are queued and offered to the scheduler from the same select, so the
// loop keeps draining reminders while the scheduler is busy and no reset is lost.
//
//nolint:cyclop // A flat select reads better than helpers split per source.
func (d *Dispatcher) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "dispatcher")

	var (
		lines   = d.sources.Lines
		pending int
	)

	for {
		// A nil channel disables the send case while nothing is queued.
		var resets chan<- domain.ResetCommand
		if pending > 0 {
			resets = d.sources.Resets
		}

		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-d.sources.Reminders:
			if !ok {
				return fmt.Errorf("reminders: %w", ErrChannelClosed)
			}

			d.display.Reminder(event)

		case event, ok := <-d.sources.Alarms:
			if !ok {
				return fmt.Errorf("alarms: %w", ErrChannelClosed)
			}

			d.display.Alarm(event)
			d.ring(ctx)

		case line, ok := <-lines:
			if !ok {
				logger.Warn(ctx, "Input closed, resets are no longer accepted from it")

				lines = nil

				continue
			}

			if domain.IsResetLine(line) {
				pending++

				logger.DebugKV(ctx, "Reset requested", "pending", pending)
			}

			d.display.Separator()

		case resets <- domain.ResetCommand{}:
			pending--
		}
	}
}

// ring plays the alarm in its own goroutine; player failures are logged and never reach the loop.
func (d *Dispatcher) ring(ctx context.Context) {
	if d.player == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorKV(ctx, "Sound player panicked", "panic", r)
			}
		}()

		if err := d.player.Play(ctx, d.opts.Clip, d.opts.Repeat); err != nil {
			logger.ErrorKV(ctx, "Failed to play alarm", "clip", d.opts.Clip, "error", err)
		}
	}()
}
