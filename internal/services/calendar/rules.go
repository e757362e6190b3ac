package calendar

import (
	"fmt"
	"time"

	"DineCast/pkg/util"
)

// RuleCalendar generates recurring US holiday dates for any year. Used for
// forecast horizons that reach past the historical festival table.
type RuleCalendar struct{}

// NewRuleCalendar builds the rule-based holiday generator.
func NewRuleCalendar() *RuleCalendar {
	return &RuleCalendar{}
}

// Lookup returns the holiday display name for a date, if any rule matches.
func (r *RuleCalendar) Lookup(date time.Time) (string, bool) {
	name, ok := r.holidaysFor(date.Year())[util.DayKey(date)]
	return name, ok
}

// holidaysFor returns the full holiday map for one year, keyed by day key.
func (r *RuleCalendar) holidaysFor(year int) map[string]string {
	h := map[string]string{
		fmt.Sprintf("%d-01-01", year): fmt.Sprintf("New Year %d", year),
		fmt.Sprintf("%d-02-14", year): fmt.Sprintf("Valentine's Day %d", year),
		fmt.Sprintf("%d-07-04", year): fmt.Sprintf("Independence Day %d", year),
		fmt.Sprintf("%d-10-31", year): fmt.Sprintf("Halloween %d", year),
		fmt.Sprintf("%d-12-25", year): fmt.Sprintf("Christmas %d", year),
		fmt.Sprintf("%d-12-31", year): fmt.Sprintf("New Year's Eve %d", year),
	}

	add := func(t time.Time, format string) {
		h[util.DayKey(t)] = fmt.Sprintf(format, year)
	}

	add(util.NthWeekday(year, time.January, time.Monday, 3), "MLK Jr. Day %d")
	add(util.NthWeekday(year, time.February, time.Monday, 3), "Presidents' Day %d")
	// Super Bowl Sunday, approximated as the 2nd Sunday of February.
	add(util.NthWeekday(year, time.February, time.Sunday, 2), "Super Bowl %d")
	add(util.NthWeekday(year, time.May, time.Sunday, 2), "Mother's Day %d")
	add(util.LastWeekday(year, time.May, time.Monday), "Memorial Day %d")
	add(util.NthWeekday(year, time.June, time.Sunday, 3), "Father's Day %d")
	add(util.NthWeekday(year, time.September, time.Monday, 1), "Labor Day %d")

	thanksgiving := util.NthWeekday(year, time.November, time.Thursday, 4)
	add(thanksgiving, "Thanksgiving %d")
	add(thanksgiving.AddDate(0, 0, 1), "Black Friday %d")

	return h
}
