// Package dispatcher multiplexes reminder ticks, fired alarms and operator input
// into a single loop that renders events, rings the alarm and forwards reset
// commands to the scheduler.
package dispatcher
