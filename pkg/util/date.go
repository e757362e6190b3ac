package util

import "time"

// Midnight truncates t to 00:00:00 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats a date as YYYY-MM-DD, the canonical key for daily rows.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDayKey parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDayKey(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween counts whole calendar days from a to b, inclusive of both ends.
// Returns 0 when b is before a.
func DaysBetween(a, b time.Time) int {
	a, b = Midnight(a), Midnight(b)
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a).Hours()/24) + 1
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NthWeekday returns the nth occurrence of weekday in a month, e.g.
// NthWeekday(2025, time.November, time.Thursday, 4) is Thanksgiving.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	ahead := int(weekday - first.Weekday())
	if ahead < 0 {
		ahead += 7
	}
	return first.AddDate(0, 0, ahead+(n-1)*7)
}

// LastWeekday returns the last occurrence of weekday in a month, e.g.
// LastWeekday(2025, time.May, time.Monday) is Memorial Day.
func LastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	back := int(last.Weekday()-weekday) % 7
	if back < 0 {
		back += 7
	}
	return last.AddDate(0, 0, -back)
}
