// Package client implements the alarm-reset and alarm-status commands.
//
// Both connect to the daemon's control endpoint, identify the local operator
// and print the scheduler state returned by the daemon.
package client
