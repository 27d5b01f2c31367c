package config

import (
	"fmt"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// timeLayouts are tried in order; layouts without a zone are read as UTC
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	dateOnly,
}

// ParseTimestamp parses a STAC timestamp: RFC 3339, a zoneless timestamp read as UTC, or a plain date
func ParseTimestamp(value string) (time.Time, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ParseDateRange parses a [start, end] pair into inclusive instants. A plain end
// date extends to the last instant of that day.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if isDateOnly(end) {
		e = e.Add(24*time.Hour - time.Nanosecond)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("start %s is after end %s", start, end)
	}
	return s, e, nil
}

func isDateOnly(value string) bool {
	_, err := time.Parse(dateOnly, strings.TrimSpace(value))
	return err == nil
}
