// Package calendar resolves calendar dates to festival names, composing an
// exact-date historical table with a rule generator for recurring US holidays.
package calendar

import (
	"regexp"
	"strings"
	"time"

	"DineCast/pkg/util"
)

// historicalFestivals maps exact dates to festival display names for the
// years covered by the sales history. Dates outside this table are resolved
// by the holiday rules.
var historicalFestivals = map[string]string{
	// 2022
	"2022-12-25": "Christmas 2022",
	"2022-12-31": "New Year's Eve 2022",
	// 2023
	"2023-01-01": "New Year 2023",
	"2023-01-16": "MLK Jr. Day 2023",
	"2023-02-12": "Super Bowl 2023",
	"2023-02-14": "Valentine's Day 2023",
	"2023-02-20": "Presidents' Day 2023",
	"2023-05-14": "Mother's Day 2023",
	"2023-05-29": "Memorial Day 2023",
	"2023-06-18": "Father's Day 2023",
	"2023-07-04": "Independence Day 2023",
	"2023-09-04": "Labor Day 2023",
	"2023-10-31": "Halloween 2023",
	"2023-11-23": "Thanksgiving 2023",
	"2023-11-24": "Black Friday 2023",
	"2023-12-25": "Christmas 2023",
	"2023-12-31": "New Year's Eve 2023",
	// 2024
	"2024-01-01": "New Year 2024",
	"2024-01-15": "MLK Jr. Day 2024",
	"2024-02-11": "Super Bowl 2024",
	"2024-02-14": "Valentine's Day 2024",
	"2024-02-19": "Presidents' Day 2024",
	"2024-05-12": "Mother's Day 2024",
	"2024-05-27": "Memorial Day 2024",
	"2024-06-16": "Father's Day 2024",
	"2024-07-04": "Independence Day 2024",
	"2024-09-02": "Labor Day 2024",
	"2024-10-31": "Halloween 2024",
	"2024-11-28": "Thanksgiving 2024",
	"2024-11-29": "Black Friday 2024",
}

// HistoricalTable is an exact-date festival lookup over the static table.
type HistoricalTable struct {
	dates map[string]string
}

// NewHistoricalTable builds the lookup over the built-in festival table.
func NewHistoricalTable() *HistoricalTable {
	return &HistoricalTable{dates: historicalFestivals}
}

// Lookup returns the festival display name for an exact date.
func (t *HistoricalTable) Lookup(date time.Time) (string, bool) {
	name, ok := t.dates[util.DayKey(date)]
	return name, ok
}

var trailingYear = regexp.MustCompile(`\s+\d{4}$`)

// TypeOf normalizes a festival display name to its type by stripping a
// trailing 4-digit year token, e.g. "Thanksgiving 2024" -> "Thanksgiving".
func TypeOf(name string) string {
	return strings.TrimSpace(trailingYear.ReplaceAllString(name, ""))
}
