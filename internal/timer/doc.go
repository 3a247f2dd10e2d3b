// Package timer provides the two time sources driving an alarm cycle:
//   - Ticker, a stoppable repeating reminder with per-instance sequence numbers,
//   - StartOneShot, a non-cancellable single alarm.
//
// Both reject non-positive durations at start.
package timer
