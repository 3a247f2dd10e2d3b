// Package display renders reminder and alarm events on a terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
)

const (
	// TimeLayout is the timestamp format shown to the operator.
	TimeLayout = "2006-01-02 15:04:05"

	// separatorWidth is the number of '=' printed after operator input.
	separatorWidth = 40
)

// Terminal writes events to an output stream, colourised when the stream supports it.
// It is safe for concurrent use; raw writes through Write are serialized with events.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	reminder  lipgloss.Style
	alarm     lipgloss.Style
	separator lipgloss.Style
}

// NewTerminal creates a Terminal writing to out. Colour support is detected from out.
func NewTerminal(out io.Writer) *Terminal {
	renderer := lipgloss.NewRenderer(out)

	return &Terminal{
		out:       out,
		reminder:  renderer.NewStyle().Foreground(lipgloss.Color("12")),
		alarm:     renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		separator: renderer.NewStyle().Faint(true),
	}
}

// Reminder prints a numbered reminder line.
func (t *Terminal) Reminder(event domain.TickEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.out, t.reminder.Render(FormatReminder(event)))
}

// Alarm prints the alarm banner.
func (t *Terminal) Alarm(event domain.AlarmEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.out, t.alarm.Render(FormatAlarm(event)))
}

// Separator prints a rule framed by blank lines.
func (t *Terminal) Separator() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintf(t.out, "\n%s\n\n", t.separator.Render(strings.Repeat("=", separatorWidth)))
}

// Write passes p to the output unchanged, e.g. the terminal bell.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.out.Write(p)
}

// FormatReminder returns the plain reminder text, e.g. " 3 - 2024-05-01 10:03:00".
func FormatReminder(event domain.TickEvent) string {
	return fmt.Sprintf("%2d - %s", event.Sequence, event.Startstamp.Local().Format(TimeLayout))
}

// FormatAlarm returns the plain alarm text.
func FormatAlarm(event domain.AlarmEvent) string {
	return "*** RUN ALARM *** -> " + event.FiredAt.Local().Format(TimeLayout)
}
