// Package reminder defines the plain data exchanged by the alarm/reminder engine:
// tick and alarm events, the reset command, the scheduler phase and the status
// snapshot reported to remote operators.
//
// Events carry timestamps and sequence numbers only; rendering is left to the caller.
package reminder
