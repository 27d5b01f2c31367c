package filtering

import (
	"time"

	"github.com/stacklok/stac-query/internal/config"
)

// DateRange is an inclusive interval of instants
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseTime parses a STAC timestamp
func ParseTime(value string) (time.Time, error) {
	return config.ParseTimestamp(value)
}

// NewDateRange parses a [start, end] pair. A plain end date extends to the last
// instant of that day.
func NewDateRange(start, end string) (DateRange, error) {
	s, e, err := config.ParseDateRange(start, end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether t lies inside the range, bounds included
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether the interval [start, end] overlaps the range: the range
// start or end falls inside the interval, or the range contains the interval
func (r DateRange) Overlaps(start, end time.Time) bool {
	interval := DateRange{Start: start, End: end}
	switch {
	case interval.Contains(r.Start):
		return true
	case interval.Contains(r.End):
		return true
	default:
		return r.Contains(start) && r.Contains(end)
	}
}

// MatchDatetime reports whether a single item datetime falls inside any range
func (s *Spec) MatchDatetime(t time.Time) bool {
	if len(s.dates) == 0 {
		return true
	}
	for _, r := range s.dates {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// MatchInterval reports whether an item start/end interval overlaps any range
func (s *Spec) MatchInterval(start, end time.Time) bool {
	if len(s.dates) == 0 {
		return true
	}
	for _, r := range s.dates {
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
