// Package config defines the alarm-reminder settings and provides helpers to
// load, validate and save them in YAML format.
//
// Intervals are written as human durations, either Go syntax ("13m40s") or
// words ("13 minutes 40 seconds").
package config
