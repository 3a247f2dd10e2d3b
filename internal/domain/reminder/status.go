package reminder

import "time"

// Phase is the state of the alarm cycle.
type Phase int

const (
	// PhaseArming means the reminder is running and the alarm is pending.
	PhaseArming Phase = iota
	// PhaseAwaitingReset means the alarm fired and the reminder keeps running until a reset.
	PhaseAwaitingReset
)

// String returns the phase name used in logs and status responses.
func (p Phase) String() string {
	switch p {
	case PhaseArming:
		return "arming"
	case PhaseAwaitingReset:
		return "awaiting-reset"
	default:
		return "unknown"
	}
}

// Actor identifies who requested a remote reset.
type Actor struct {
	// Hostname is the machine name the request came from.
	Hostname string
	// Username is the system user who sent the request.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	// Session identifies the running daemon instance.
	Session string
	// Phase is the current cycle state.
	Phase Phase
	// Cycle counts cycles since start, the first cycle is 1.
	Cycle uint64
	// CycleStartedAt is when the current cycle was armed.
	CycleStartedAt time.Time
	// AlarmFiredAt is when the alarm of the current cycle fired, zero while arming.
	AlarmFiredAt time.Time
}
