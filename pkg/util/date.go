package util

import (
	"strconv"
	"time"
)

// ISODay is the calendar-date layout used by the prediction service.
const ISODay = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, ISO date, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(ISODay, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseDay parses an ISO calendar-date string into a UTC midnight instant.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(ISODay, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day zeroes the time-of-day so dates compare as calendar instants.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfWeek rolls t back to the most recent Monday at UTC midnight.
// Sunday counts as day 7, so it rolls back six days.
func StartOfWeek(t time.Time) time.Time {
	day := Day(t)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// WeekdayLabel returns the short weekday name ("Mon".."Sun") for a day.
func WeekdayLabel(t time.Time) string {
	return t.UTC().Weekday().String()[:3]
}
