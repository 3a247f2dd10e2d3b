// Package scheduler runs the alarm cycle.
//
// A cycle starts with a reminder ticker and a one-shot alarm. When the alarm
// fires the reminder keeps going until a reset command arrives; the reset
// stops the reminder, waits until it is fully drained and arms a new cycle
// with the configured durations. Resets received before the alarm fires are
// ignored.
package scheduler
