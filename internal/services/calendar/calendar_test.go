package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoricalTableLookup(t *testing.T) {
	table := NewHistoricalTable()

	name, ok := table.Lookup(time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Thanksgiving 2024", name)

	_, ok = table.Lookup(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestRuleCalendarFloatingHolidays(t *testing.T) {
	rules := NewRuleCalendar()

	// Thanksgiving 2025 = 4th Thursday of November = Nov 27.
	name, ok := rules.Lookup(time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Thanksgiving 2025", name)

	// Black Friday follows the day after.
	name, ok = rules.Lookup(time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Black Friday 2025", name)

	// Memorial Day 2025 = last Monday of May = May 26.
	name, ok = rules.Lookup(time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Memorial Day 2025", name)

	// Fixed-date holiday.
	name, ok = rules.Lookup(time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Independence Day 2025", name)

	_, ok = rules.Lookup(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestCompositePrefersHistoricalTable(t *testing.T) {
	cal := NewComposite()

	// 2024 Thanksgiving exists in both sources; the table wins.
	name, ok := cal.Lookup(time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Thanksgiving 2024", name)

	// 2026 only exists via rules.
	name, ok = cal.Lookup(time.Date(2026, 11, 26, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Thanksgiving 2026", name)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "Thanksgiving", TypeOf("Thanksgiving 2024"))
	assert.Equal(t, "New Year's Eve", TypeOf("New Year's Eve 2023"))
	assert.Equal(t, "Black Friday", TypeOf("Black Friday"))
}
