// Package checker implements the watch mode of alarm-status.
//
// It polls the daemon's control endpoint and prints the scheduler state every
// time the cycle or the phase changes, so a second terminal can follow the alarm.
package checker
