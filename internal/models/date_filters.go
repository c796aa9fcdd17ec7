package models

import (
	"strings"
	"time"
)

// ParseDateFilter parses a date typed by the user.
// Supported formats:
// - YYYY-MM-DD
// - DD.MM.YYYY
// - RFC 3339
func ParseDateFilter(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse("02.01.2006", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// EndOfDay returns the last instant of t's calendar day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// DefaultSummaryRange is the range the summary form starts with: the last day up to now
func DefaultSummaryRange(now time.Time) (time.Time, time.Time) {
	return now.Add(-24 * time.Hour), now
}

// FormatDay formats t the way listings show dates
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

// FormatDateTime formats t with minutes the way listings show timestamps
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}
