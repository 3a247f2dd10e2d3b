package reminder

import (
	"strings"
	"time"
)

// ResetToken is the operator input that acknowledges a fired alarm.
const ResetToken = "r"

// TickEvent is a single reminder emitted by a ticker.
type TickEvent struct {
	// Sequence starts at 1 for every ticker instance.
	Sequence uint64
	// Startstamp is the wall-clock time of the emission.
	Startstamp time.Time
}

// AlarmEvent is produced once per cycle when the alarm timer fires.
type AlarmEvent struct {
	// FiredAt is the wall-clock time the alarm fired.
	FiredAt time.Time
}

// ResetCommand asks the scheduler to start a fresh cycle.
type ResetCommand struct{}

// IsResetLine reports whether a raw input line is a reset request.
func IsResetLine(line string) bool {
	return strings.TrimSpace(line) == ResetToken
}
