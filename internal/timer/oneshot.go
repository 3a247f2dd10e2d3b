package timer

import (
	"fmt"
	"time"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
)

// StartOneShot returns a channel that receives exactly one alarm event after d.
// The channel is buffered so the timer never waits for a reader, and it is never closed.
func StartOneShot(d time.Duration) (<-chan domain.AlarmEvent, error) {
	if d <= 0 {
		return nil, fmt.Errorf("start alarm timer with duration %s: %w", d, ErrInvalidDuration)
	}

	fired := make(chan domain.AlarmEvent, 1)

	time.AfterFunc(d, func() {
		fired <- domain.AlarmEvent{FiredAt: time.Now()}
	})

	return fired, nil
}
