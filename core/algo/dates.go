package algo

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when reading timestamps from upstream records.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate reads an upstream timestamp. Empty or unparseable input yields the
// zero time, which callers treat as "no date".
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseOptionalDate is ParseDate for nullable fields.
func ParseOptionalDate(s *string) time.Time {
	if s == nil {
		return time.Time{}
	}
	return ParseDate(*s)
}

// monthStart returns the first day of t's month at UTC midnight.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// withinRange reports whether the calendar date of t falls in [start, end].
func withinRange(t, start, end time.Time) bool {
	d := civilDate(t)
	return !d.Before(civilDate(start)) && !d.After(civilDate(end))
}
