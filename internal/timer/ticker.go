package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
)

// ErrInvalidDuration is returned when a timer is started with a non-positive duration.
var ErrInvalidDuration = errors.New("duration must be positive")

// Ticker emits numbered reminder events at a fixed interval until stopped.
type Ticker struct {
	// events delivers ticks to the single owner; closed when the loop exits.
	events chan domain.TickEvent
	// stop is closed by Stop to end the loop.
	stop chan struct{}
	// done is closed after the loop has exited.
	done chan struct{}
	// stopOnce makes Stop idempotent.
	stopOnce sync.Once
}

// StartTicker starts a ticker whose first event arrives one interval from now.
func StartTicker(interval time.Duration) (*Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("start ticker with interval %s: %w", interval, ErrInvalidDuration)
	}

	t := &Ticker{
		events: make(chan domain.TickEvent),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go t.run(interval)

	return t, nil
}

// Events returns the tick stream. It is closed once the ticker has stopped.
func (t *Ticker) Events() <-chan domain.TickEvent {
	return t.events
}

// Stop asks the ticker to exit. It may be called any number of times.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// Done is closed when no further events will be emitted.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

// run is the production loop. A send blocked on a slow reader is abandoned on Stop.
func (t *Ticker) run(interval time.Duration) {
	ticker := time.NewTicker(interval)

	defer func() {
		ticker.Stop()
		close(t.events)
		close(t.done)
	}()

	var sequence uint64

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			sequence++

			event := domain.TickEvent{
				Sequence:   sequence,
				Startstamp: time.Now(),
			}

			select {
			case t.events <- event:
			case <-t.stop:
				return
			}
		}
	}
}
