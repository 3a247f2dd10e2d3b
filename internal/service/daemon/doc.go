// Package daemon runs the alarm-reminder process.
//
// It loads settings, arms the alarm cycle scheduler, reads operator input,
// optionally serves the gRPC control endpoint and dispatches every event to
// the terminal and the sound player until the context is canceled.
package daemon
