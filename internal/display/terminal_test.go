package display

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
)

// TestFormat checks the plain text of reminder and alarm lines.
func TestFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 10, 3, 0, 0, time.Local)

	require.Equal(t, " 3 - 2024-05-01 10:03:00", FormatReminder(domain.TickEvent{Sequence: 3, Startstamp: at}))
	require.Equal(t, "12 - 2024-05-01 10:03:00", FormatReminder(domain.TickEvent{Sequence: 12, Startstamp: at}))
	require.Equal(t, "*** RUN ALARM *** -> 2024-05-01 10:03:00", FormatAlarm(domain.AlarmEvent{FiredAt: at}))
}

// TestTerminal writes every kind of event to a non-terminal buffer.
func TestTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	at := time.Date(2024, 5, 1, 10, 3, 0, 0, time.Local)
	term := NewTerminal(&buf)

	term.Reminder(domain.TickEvent{Sequence: 1, Startstamp: at})
	term.Alarm(domain.AlarmEvent{FiredAt: at})
	term.Separator()

	out := buf.String()
	require.Contains(t, out, " 1 - 2024-05-01 10:03:00")
	require.Contains(t, out, "*** RUN ALARM *** -> 2024-05-01 10:03:00")
	require.Contains(t, out, strings.Repeat("=", separatorWidth))
	require.Equal(t, 5, strings.Count(out, "\n"))
}

// TestTerminal_ConcurrentWrites keeps raw writes and events from interleaving.
func TestTerminal_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	var (
		buf  bytes.Buffer
		wg   sync.WaitGroup
		term = NewTerminal(&buf)
	)

	for range 8 {
		wg.Go(func() {
			_, _ = term.Write([]byte("\a"))
		})
		wg.Go(func() {
			term.Reminder(domain.TickEvent{Sequence: 1, Startstamp: time.Now()})
		})
	}

	wg.Wait()

	out := buf.String()
	require.Equal(t, 8, strings.Count(out, "\a"))
	require.Equal(t, 8, strings.Count(out, "\n"))
}
