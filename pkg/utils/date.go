package utils

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Offsets are honoured when present;
// inputs without one are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTimestamp parses raw permissively. ok is false for empty or unparsable input.
func ParseTimestamp(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ParseDay parses raw and normalizes it to a calendar day: the instant is
// converted to UTC and truncated to midnight.
func ParseDay(raw string) (time.Time, bool) {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return time.Time{}, false
	}
	return TruncateDay(t), true
}

// TruncateDay returns midnight UTC of t's UTC calendar day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats a normalized day for use as a map key or report cell.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
