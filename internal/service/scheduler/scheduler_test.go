package scheduler

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/timer"
)

// emitted collects what the scheduler relayed during one step of virtual time.
type emitted struct {
	ticks  []domain.TickEvent
	alarms []domain.AlarmEvent
}

// sequences returns the tick sequence numbers in arrival order.
func (e emitted) sequences() []uint64 {
	result := make([]uint64, 0, len(e.ticks))
	for _, tick := range e.ticks {
		result = append(result, tick.Sequence)
	}

	return result
}

// drain reads every event the scheduler can relay without time moving forward.
func drain(s *Scheduler) emitted {
	var out emitted

	for {
		synctest.Wait()

		select {
		case tick := <-s.Reminders():
			out.ticks = append(out.ticks, tick)
		case alarm := <-s.Alarms():
			out.alarms = append(out.alarms, alarm)
		default:
			return out
		}
	}
}

// advance moves virtual time forward and returns what was relayed meanwhile.
func advance(s *Scheduler, d time.Duration) emitted {
	time.Sleep(d)

	return drain(s)
}

// advanceBy moves virtual time in equal steps, draining after each one.
func advanceBy(s *Scheduler, step time.Duration, steps int) emitted {
	var out emitted

	for range steps {
		next := advance(s, step)
		out.ticks = append(out.ticks, next.ticks...)
		out.alarms = append(out.alarms, next.alarms...)
	}

	return out
}

// reset delivers a reset command while still reading relayed events, the way the
// dispatcher does, and lets the scheduler process it.
func reset(s *Scheduler) emitted {
	var out emitted

	for {
		select {
		case s.Resets() <- domain.ResetCommand{}:
			synctest.Wait()

			return out
		case tick := <-s.Reminders():
			out.ticks = append(out.ticks, tick)
		case alarm := <-s.Alarms():
			out.alarms = append(out.alarms, alarm)
		}
	}
}

// startForTest starts a scheduler and returns a function that stops and awaits it.
func startForTest(t *testing.T, alarmInterval, reminderInterval time.Duration) (*Scheduler, func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())

	s, err := Start(ctx, alarmInterval, reminderInterval, WithSession("test-session"))
	require.NoError(t, err)

	return s, func() {
		cancel()
		require.NoError(t, s.Wait())
	}
}

// TestStart_InvalidDurations ensures startup errors are returned synchronously.
func TestStart_InvalidDurations(t *testing.T) {
	t.Parallel()

	s, err := Start(context.Background(), 0, time.Second)
	require.ErrorIs(t, err, timer.ErrInvalidDuration)
	require.Nil(t, s)

	s, err = Start(context.Background(), time.Second, -time.Second)
	require.ErrorIs(t, err, timer.ErrInvalidDuration)
	require.Nil(t, s)
}

// TestScheduler_EndToEnd runs alarm=3, reminder=1 across one reset.
func TestScheduler_EndToEnd(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		start := time.Now()
		s, stop := startForTest(t, 3*time.Second, time.Second)
		defer stop()

		status := s.Status()
		require.Equal(t, domain.PhaseArming, status.Phase)
		require.Equal(t, uint64(1), status.Cycle)
		require.Equal(t, "test-session", status.Session)

		step := advance(s, time.Second)
		require.Equal(t, []uint64{1}, step.sequences())
		require.Empty(t, step.alarms)

		step = advance(s, time.Second)
		require.Equal(t, []uint64{2}, step.sequences())
		require.Empty(t, step.alarms)

		step = advance(s, time.Second)
		require.Equal(t, []uint64{3}, step.sequences())
		require.Len(t, step.alarms, 1)
		require.Equal(t, start.Add(3*time.Second), step.alarms[0].FiredAt)
		require.Equal(t, domain.PhaseAwaitingReset, s.Status().Phase)

		// The reminder keeps running after the alarm until a reset arrives.
		step = advance(s, time.Second)
		require.Equal(t, []uint64{4}, step.sequences())
		require.Empty(t, step.alarms)

		require.Empty(t, reset(s).ticks)

		status = s.Status()
		require.Equal(t, domain.PhaseArming, status.Phase)
		require.Equal(t, uint64(2), status.Cycle)
		require.Equal(t, start.Add(4*time.Second), status.CycleStartedAt)
		require.True(t, status.AlarmFiredAt.IsZero())

		step = advance(s, time.Second)
		require.Equal(t, []uint64{1}, step.sequences())
		require.Empty(t, step.alarms)

		step = advance(s, time.Second)
		require.Equal(t, []uint64{2}, step.sequences())
		require.Empty(t, step.alarms)

		step = advance(s, time.Second)
		require.Equal(t, []uint64{3}, step.sequences())
		require.Len(t, step.alarms, 1)
		require.Equal(t, start.Add(7*time.Second), step.alarms[0].FiredAt)
	})
}

// TestScheduler_ResetWhileArmingIsIgnored checks that an early reset neither restarts nor advances the cycle.
func TestScheduler_ResetWhileArmingIsIgnored(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		start := time.Now()
		s, stop := startForTest(t, 3*time.Second, time.Second)
		defer stop()

		step := advance(s, 1500*time.Millisecond)
		require.Equal(t, []uint64{1}, step.sequences())

		require.Empty(t, reset(s).ticks)
		require.Equal(t, domain.PhaseArming, s.Status().Phase)
		require.Equal(t, uint64(1), s.Status().Cycle)

		// Neither the reminder nor the alarm were restarted.
		step = advance(s, 500*time.Millisecond)
		require.Equal(t, []uint64{2}, step.sequences())

		step = advance(s, time.Second)
		require.Equal(t, []uint64{3}, step.sequences())
		require.Len(t, step.alarms, 1)
		require.Equal(t, start.Add(3*time.Second), step.alarms[0].FiredAt)

		// The ignored reset was not remembered for later.
		step = advanceBy(s, time.Second, 5)
		require.Equal(t, []uint64{4, 5, 6, 7, 8}, step.sequences())
		require.Empty(t, step.alarms)
		require.Equal(t, uint64(1), s.Status().Cycle)
	})
}

// TestScheduler_OneAlarmPerCycle sends N resets after each fire and expects N+1 alarms.
func TestScheduler_OneAlarmPerCycle(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		const (
			alarmInterval = 10 * time.Second
			resets        = 4
		)

		s, stop := startForTest(t, alarmInterval, 3*time.Second)
		defer stop()

		var (
			alarms []domain.AlarmEvent
			armed  = []time.Time{time.Now()}
		)

		// Reset at a different delay after every fire.
		delays := []time.Duration{0, time.Second, 7 * time.Second, 25 * time.Second}

		for cycle := 0; cycle <= resets; cycle++ {
			for len(alarms) == cycle {
				step := advance(s, time.Second)
				alarms = append(alarms, step.alarms...)
			}

			require.Len(t, alarms, cycle+1)

			if cycle == resets {
				break
			}

			step := advance(s, delays[cycle])
			require.Empty(t, step.alarms)
			require.Empty(t, reset(s).alarms)

			armed = append(armed, time.Now())
		}

		step := advance(s, time.Minute)
		require.Empty(t, step.alarms)
		require.Len(t, alarms, resets+1)

		for i, alarm := range alarms {
			require.Equal(t, armed[i].Add(alarmInterval), alarm.FiredAt)

			if i > 0 {
				require.GreaterOrEqual(t, alarm.FiredAt.Sub(alarms[i-1].FiredAt), alarmInterval)
			}
		}
	})
}

// TestScheduler_NoOrphanTicks verifies every cycle's ticks start at 1 and are contiguous.
func TestScheduler_NoOrphanTicks(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s, stop := startForTest(t, 2*time.Second, 500*time.Millisecond)
		defer stop()

		for cycle := range 3 {
			step := advanceBy(s, 500*time.Millisecond, 6)
			require.Equal(t, []uint64{1, 2, 3, 4, 5, 6}, step.sequences(), "cycle %d", cycle)
			require.Len(t, step.alarms, 1, "cycle %d", cycle)

			// Reset exactly on a reminder instant, so the old ticker is busy when stopped.
			time.Sleep(500 * time.Millisecond)

			// A tick that raced with the reset is the last one of the old cycle.
			leftover := reset(s)
			for _, tick := range leftover.ticks {
				require.Equal(t, uint64(7), tick.Sequence)
			}

			require.Empty(t, drain(s).ticks)
		}
	})
}

// TestScheduler_ReminderFlowsWhileAwaitingReset ensures the relay does not stop after the alarm.
func TestScheduler_ReminderFlowsWhileAwaitingReset(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s, stop := startForTest(t, time.Second, time.Minute)
		defer stop()

		step := advance(s, time.Second)
		require.Len(t, step.alarms, 1)
		require.Empty(t, step.ticks)

		step = advanceBy(s, time.Minute, 3)
		require.Equal(t, []uint64{1, 2, 3}, step.sequences())
		require.Empty(t, step.alarms)
		require.Equal(t, domain.PhaseAwaitingReset, s.Status().Phase)
	})
}

// TestScheduler_CancelStopsTicker checks that cancellation ends the loop and the reminder.
func TestScheduler_CancelStopsTicker(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())

		s, err := Start(ctx, time.Hour, time.Second)
		require.NoError(t, err)

		// Leave a tick blocked in the relay.
		time.Sleep(time.Second)
		synctest.Wait()

		cancel()

		<-s.Done()
		require.NoError(t, s.Wait())
		require.False(t, s.supervisor.Running())
	})
}
