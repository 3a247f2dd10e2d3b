package scheduler

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/timer"
)

// ErrTickerRunning is returned by Begin when the previous ticker was not ended.
var ErrTickerRunning = errors.New("reminder ticker is already running")

// Supervisor owns at most one reminder ticker at a time.
// It is not safe for concurrent use; the scheduler loop is its only caller.
type Supervisor struct {
	// ticker is the reminder of the current cycle, nil between End and Begin.
	ticker *timer.Ticker
}

// Begin starts a reminder ticker and returns its event stream.
func (s *Supervisor) Begin(interval time.Duration) (<-chan domain.TickEvent, error) {
	if s.ticker != nil {
		return nil, ErrTickerRunning
	}

	ticker, err := timer.StartTicker(interval)
	if err != nil {
		return nil, fmt.Errorf("begin reminder: %w", err)
	}

	s.ticker = ticker

	return ticker.Events(), nil
}

// End stops the owned ticker and blocks until it can no longer emit events.
func (s *Supervisor) End() {
	if s.ticker == nil {
		return
	}

	s.ticker.Stop()
	<-s.ticker.Done()

	s.ticker = nil
}

// Running reports whether a ticker is currently owned.
func (s *Supervisor) Running() bool {
	return s.ticker != nil
}
