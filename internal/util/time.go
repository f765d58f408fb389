package util

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// timestampLayouts is tried in order. Records carry ISO-8601 timestamps with
// or without fractional seconds; a trailing Z is equivalent to +00:00.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 datetime string and normalizes it to UTC.
func ParseTimestamp(timeStr string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, timeStr)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", timeStr)
}

// ParseDate parses a calendar date in YYYY-MM-DD format.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s", dateStr)
	}
	return t, nil
}
