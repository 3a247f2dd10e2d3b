package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDuration is returned for durations that are empty, malformed or not positive.
var ErrInvalidDuration = errors.New("invalid duration")

// Duration is a time.Duration read from and written to YAML as a human string.
type Duration time.Duration

// durationTerm matches one "<number> <unit>" term with optional ", " or "and" after it.
var durationTerm = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Zµ]+)\s*(?:,\s*)?(?:and\s+)?`)

//nolint:gochecknoglobals // Read-only lookup table.
var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond, "nanosecond": time.Nanosecond, "nanoseconds": time.Nanosecond,
	"us": time.Microsecond, "µs": time.Microsecond, "microsecond": time.Microsecond, "microseconds": time.Microsecond,
	"ms": time.Millisecond, "msec": time.Millisecond, "msecs": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

// ParseDuration parses Go duration syntax or a sequence of "<number> <unit>" words.
// The result must be strictly positive.
func ParseDuration(s string) (time.Duration, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return 0, fmt.Errorf("empty value: %w", ErrInvalidDuration)
	}

	d, err := time.ParseDuration(text)
	if err != nil {
		d, err = parseWords(text)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", s, err)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("%q is not positive: %w", s, ErrInvalidDuration)
	}

	return d, nil
}

// parseWords consumes "<number> <unit>" terms until the text is exhausted.
func parseWords(text string) (time.Duration, error) {
	var total time.Duration

	for rest := text; rest != ""; {
		match := durationTerm.FindStringSubmatch(rest)
		if match == nil {
			return 0, fmt.Errorf("unexpected %q: %w", rest, ErrInvalidDuration)
		}

		unit, ok := durationUnits[match[2]]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q: %w", match[2], ErrInvalidDuration)
		}

		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return 0, fmt.Errorf("number %q: %w", match[1], ErrInvalidDuration)
		}

		total += time.Duration(value * float64(unit))
		rest = rest[len(match[0]):]
	}

	return total, nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String renders the duration in Go syntax.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML writes the duration in Go syntax.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML accepts any form understood by ParseDuration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return err
	}

	*d = Duration(parsed)

	return nil
}
