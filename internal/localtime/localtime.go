// Package localtime parses vendor timestamps and renders them as wall-clock
// strings. Vendor timestamps are already local to the airport, so no zone
// conversion is ever applied.
package localtime

import (
	"fmt"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads a vendor timestamp keeping its wall clock. An explicit offset,
// when present, is retained on the returned time but never converted away.
func Parse(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: ": unable to parse vendor timestamp",
	}
}

// Clock renders a vendor timestamp as 24-hour HH:MM.
func Clock(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.Format(ClockLayout), nil
}

// Date renders a vendor timestamp as YYYY-MM-DD.
func Date(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// MinutesOfDay parses an HH:MM string into minutes since midnight.
func MinutesOfDay(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
