package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetweenInclusive(t *testing.T) {
	a := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	b := time.Date(2024, 1, 3, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 1, DaysBetween(a, a))
	assert.Equal(t, 0, DaysBetween(b, a))
}

func TestNthWeekday(t *testing.T) {
	// Thanksgiving 2024 = 4th Thursday of November = Nov 28.
	got := NthWeekday(2024, time.November, time.Thursday, 4)
	assert.Equal(t, "2024-11-28", DayKey(got))

	// MLK Day 2024 = 3rd Monday of January = Jan 15.
	got = NthWeekday(2024, time.January, time.Monday, 3)
	assert.Equal(t, "2024-01-15", DayKey(got))
}

func TestLastWeekday(t *testing.T) {
	// Memorial Day 2024 = last Monday of May = May 27.
	got := LastWeekday(2024, time.May, time.Monday)
	assert.Equal(t, "2024-05-27", DayKey(got))
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsWeekend(sat))
	assert.False(t, IsWeekend(mon))
}

func TestParseDayKey(t *testing.T) {
	got, ok := ParseDayKey("2024-07-04")
	assert.True(t, ok)
	assert.Equal(t, time.July, got.Month())
	_, ok = ParseDayKey("not-a-date")
	assert.False(t, ok)
}
