package integration

import (
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-reminder/internal/config"
	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/service/common"
	"github.com/oshokin/alarm-reminder/internal/service/daemon"
)

// screen collects daemon output for assertions.
type screen struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Write(p)
}

func (s *screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.String()
}

// startDaemon runs the real daemon with a control endpoint on addr.
// Returns a stop function that cancels it and waits for a clean exit.
func startDaemon(t *testing.T, addr string, alarm time.Duration, out io.Writer) (stop func()) {
	t.Helper()

	// Create cancellable context for daemon lifecycle.
	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	settings := config.Default()
	settings.AlarmInterval = config.Duration(alarm)
	settings.ReminderInterval = config.Duration(50 * time.Millisecond)
	settings.Sound.File = ""
	settings.Control.Address = addr
	settings.Control.RequestsPerSecond = 100

	// Create temporary configuration file.
	require.NoError(t, config.Save(cfgPath, settings))

	// Keyboard input stays open until the daemon is stopped.
	input, keyboard := io.Pipe()
	errs := make(chan error, 1)

	// Start daemon in background goroutine.
	go func() {
		errs <- daemon.Run(ctx, &daemon.Options{
			ConfigPath:    cfgPath,
			AllowMultiple: true,
			Input:         input,
			Output:        out,
		})
	}()

	return func() {
		cancel()

		_ = keyboard.Close()

		require.NoError(t, <-errs)
	}
}

// reserveAddress finds a free local port for the test daemon.
func reserveAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// TestControl_RemoteReset starts the real daemon and drives a full cycle through the control endpoint.
func TestControl_RemoteReset(t *testing.T) {
	t.Parallel()

	var out screen

	addr := reserveAddress(t)

	stop := startDaemon(t, addr, time.Second, &out)
	defer stop()

	ctx := context.Background()

	// Connect to the test daemon with timeout.
	c, err := common.Dial(ctx, addr, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	// Wait for the endpoint and the first cycle.
	var first *domain.Status

	require.Eventually(t, func() bool {
		first, err = c.Status(ctx)

		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, uint64(1), first.Cycle)
	require.NotEmpty(t, first.Session)

	actor := &domain.Actor{
		Hostname: "test-hostname",
		Username: "test-user",
	}

	// The alarm has not fired yet, so the reset is ignored.
	if first.Phase == domain.PhaseArming {
		result, err := c.Reset(ctx, actor)
		require.NoError(t, err)
		require.False(t, result.Accepted)
	}

	// Wait for the alarm.
	require.Eventually(t, func() bool {
		status, err := c.Status(ctx)

		return err == nil && status.Phase == domain.PhaseAwaitingReset
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "*** RUN ALARM ***")
	}, 5*time.Second, 20*time.Millisecond)

	result, err := c.Reset(ctx, actor)
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.Equal(t, uint64(1), result.Status.Cycle)

	// The daemon arms a second cycle.
	require.Eventually(t, func() bool {
		status, err := c.Status(ctx)

		return err == nil && status.Cycle == 2 && status.Phase == domain.PhaseArming
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), strings.Repeat("=", 40))
	}, 5*time.Second, 20*time.Millisecond)
}
