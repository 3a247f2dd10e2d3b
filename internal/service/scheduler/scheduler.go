package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/logger"
	"github.com/oshokin/alarm-reminder/internal/timer"
)

// ErrChannelClosed reports that the reminder stream closed while the cycle still owned it.
var ErrChannelClosed = errors.New("reminder stream closed unexpectedly")

// Scheduler drives alarm cycles and relays their events.
type Scheduler struct {
	// alarmInterval is the time from arming to the alarm, identical for every cycle.
	alarmInterval time.Duration
	// reminderInterval is the reminder cadence, identical for every cycle.
	reminderInterval time.Duration

	// alarms relays one event per cycle to the consumer.
	alarms chan domain.AlarmEvent
	// reminders relays ticks of the current cycle to the consumer.
	reminders chan domain.TickEvent
	// resets receives reset commands from the consumer.
	resets chan domain.ResetCommand

	// supervisor owns the reminder ticker; touched only by the loop after Start returns.
	supervisor Supervisor
	// tickIn is the stream of the currently owned ticker.
	tickIn <-chan domain.TickEvent
	// alarmIn is the pending alarm of the current cycle, nil once it fired.
	alarmIn <-chan domain.AlarmEvent

	// mu guards status.
	mu sync.RWMutex
	// status mirrors the loop state for readers on other goroutines.
	status domain.Status

	// done is closed when the loop has exited and the ticker is stopped.
	done chan struct{}
	// err is the loop result, readable after done is closed.
	err error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSession tags the status snapshot with a daemon session identifier.
func WithSession(session string) Option {
	return func(s *Scheduler) {
		s.status.Session = session
	}
}

// Start validates the durations, arms the first cycle and runs the cycle loop
// until ctx is canceled. Startup failures are returned before any goroutine is left behind.
func Start(ctx context.Context, alarmInterval, reminderInterval time.Duration, opts ...Option) (*Scheduler, error) {
	if alarmInterval <= 0 {
		return nil, fmt.Errorf("alarm interval %s: %w", alarmInterval, timer.ErrInvalidDuration)
	}

	if reminderInterval <= 0 {
		return nil, fmt.Errorf("reminder interval %s: %w", reminderInterval, timer.ErrInvalidDuration)
	}

	s := &Scheduler{
		alarmInterval:    alarmInterval,
		reminderInterval: reminderInterval,
		alarms:           make(chan domain.AlarmEvent),
		reminders:        make(chan domain.TickEvent),
		resets:           make(chan domain.ResetCommand),
		done:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.arm(); err != nil {
		return nil, fmt.Errorf("start scheduler: %w", err)
	}

	ctx = logger.WithName(ctx, "scheduler")

	logger.InfoKV(
		ctx,
		"Alarm cycle armed",
		"cycle", s.status.Cycle,
		"alarm_interval", alarmInterval.String(),
		"reminder_interval", reminderInterval.String(),
	)

	go s.run(ctx)

	return s, nil
}

// Alarms returns the stream of fired alarms. It is never closed.
func (s *Scheduler) Alarms() <-chan domain.AlarmEvent {
	return s.alarms
}

// Reminders returns the stream of reminder ticks. It is never closed.
func (s *Scheduler) Reminders() <-chan domain.TickEvent {
	return s.reminders
}

// Resets returns the channel accepting reset commands.
func (s *Scheduler) Resets() chan<- domain.ResetCommand {
	return s.resets
}

// Status returns a snapshot of the current cycle.
func (s *Scheduler) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status
}

// Done is closed when the cycle loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the cycle loop exits and returns its error, nil on cancellation.
func (s *Scheduler) Wait() error {
	<-s.done

	return s.err
}

// run executes the loop and releases the ticker whatever the outcome.
func (s *Scheduler) run(ctx context.Context) {
	err := s.loop(ctx)

	s.supervisor.End()
	s.err = err

	if err != nil {
		logger.ErrorKV(ctx, "Alarm cycle stopped", "error", err)
	} else {
		logger.Info(ctx, "Alarm cycle stopped")
	}

	close(s.done)
}

// loop is the Arming/AwaitingReset state machine.
//
//nolint:cyclop // One select over every input keeps the transitions in one place.
func (s *Scheduler) loop(ctx context.Context) error {
	phase := domain.PhaseArming

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-s.tickIn:
			if !ok {
				return ErrChannelClosed
			}

			if !relay(ctx, s.reminders, event) {
				return nil
			}

		case event := <-s.alarmIn:
			// The one-shot is spent; only a reset arms the next one.
			s.alarmIn = nil
			phase = domain.PhaseAwaitingReset

			s.mu.Lock()
			s.status.Phase = phase
			s.status.AlarmFiredAt = event.FiredAt
			s.mu.Unlock()

			logger.InfoKV(ctx, "Alarm fired", "cycle", s.Status().Cycle, "fired_at", event.FiredAt)

			if !relay(ctx, s.alarms, event) {
				return nil
			}

		case <-s.resets:
			if phase == domain.PhaseArming {
				logger.DebugKV(ctx, "Reset ignored, alarm has not fired yet", "cycle", s.Status().Cycle)

				continue
			}

			s.supervisor.End()

			if err := s.arm(); err != nil {
				return fmt.Errorf("rearm after reset: %w", err)
			}

			phase = domain.PhaseArming

			logger.InfoKV(ctx, "Alarm cycle armed", "cycle", s.Status().Cycle)
		}
	}
}

// arm begins a reminder and a fresh alarm with the configured durations.
// The previous ticker must already be ended.
func (s *Scheduler) arm() error {
	tickIn, err := s.supervisor.Begin(s.reminderInterval)
	if err != nil {
		return err
	}

	alarmIn, err := timer.StartOneShot(s.alarmInterval)
	if err != nil {
		s.supervisor.End()

		return fmt.Errorf("begin alarm: %w", err)
	}

	s.tickIn = tickIn
	s.alarmIn = alarmIn

	s.mu.Lock()
	s.status.Phase = domain.PhaseArming
	s.status.Cycle++
	s.status.CycleStartedAt = time.Now()
	s.status.AlarmFiredAt = time.Time{}
	s.mu.Unlock()

	return nil
}

// relay hands an event to the consumer unless ctx is canceled first.
func relay[T any](ctx context.Context, out chan<- T, event T) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
