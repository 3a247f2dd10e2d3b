package timer

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestStartTicker_InvalidInterval ensures non-positive intervals fail fast.
func TestStartTicker_InvalidInterval(t *testing.T) {
	t.Parallel()

	for _, interval := range []time.Duration{0, -time.Second} {
		ticker, err := StartTicker(interval)
		require.ErrorIs(t, err, ErrInvalidDuration)
		require.Nil(t, ticker)
	}
}

// TestTicker_SequenceAndCadence verifies numbering from 1 and one event per interval.
func TestTicker_SequenceAndCadence(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		start := time.Now()

		ticker, err := StartTicker(time.Minute)
		require.NoError(t, err)

		defer ticker.Stop()

		for i := 1; i <= 3; i++ {
			event := <-ticker.Events()
			require.Equal(t, uint64(i), event.Sequence)
			require.Equal(t, start.Add(time.Duration(i)*time.Minute), event.Startstamp)
		}
	})
}

// TestTicker_StopIsIdempotentAndFinal checks that Stop closes the stream exactly once.
func TestTicker_StopIsIdempotentAndFinal(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ticker, err := StartTicker(time.Second)
		require.NoError(t, err)

		// Let a tick become pending on the unbuffered stream, then stop without reading it.
		time.Sleep(time.Second)
		synctest.Wait()

		ticker.Stop()
		ticker.Stop()
		<-ticker.Done()

		_, ok := <-ticker.Events()
		require.False(t, ok)

		// No goroutine is left producing ticks.
		time.Sleep(10 * time.Second)
		synctest.Wait()
	})
}

// TestTicker_FreshInstanceRestartsSequence ensures numbering belongs to the instance.
func TestTicker_FreshInstanceRestartsSequence(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		first, err := StartTicker(time.Second)
		require.NoError(t, err)

		require.Equal(t, uint64(1), (<-first.Events()).Sequence)
		require.Equal(t, uint64(2), (<-first.Events()).Sequence)

		first.Stop()
		<-first.Done()

		second, err := StartTicker(time.Second)
		require.NoError(t, err)

		defer second.Stop()

		require.Equal(t, uint64(1), (<-second.Events()).Sequence)
	})
}
