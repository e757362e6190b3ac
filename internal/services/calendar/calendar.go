package calendar

import (
	"time"

	"DineCast/internal/domain/service"
)

// Composite resolves festivals against the exact-date historical table first,
// falling back to the rule generator for dates the table does not cover.
type Composite struct {
	sources []service.FestivalCalendar
}

// NewComposite builds the default festival calendar: historical table first,
// holiday rules second.
func NewComposite() *Composite {
	return &Composite{
		sources: []service.FestivalCalendar{
			NewHistoricalTable(),
			NewRuleCalendar(),
		},
	}
}

// Lookup returns the festival display name for a date, if any source knows it.
func (c *Composite) Lookup(date time.Time) (string, bool) {
	for _, s := range c.sources {
		if name, ok := s.Lookup(date); ok {
			return name, ok
		}
	}
	return "", false
}
