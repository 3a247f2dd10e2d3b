// Package common holds helpers shared by the daemon and the control commands.
//
// It provides a lightweight gRPC client for the control service with timeouts,
// detection of the current system actor (hostname/username) for audit logging,
// and a guard against running two daemons on one machine.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
