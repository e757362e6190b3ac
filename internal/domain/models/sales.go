package models

import "time"

// SaleRecord is one raw transaction line from the sales store.
// Multiple records may share a (date, product) pair.
type SaleRecord struct {
	Date      time.Time `json:"date"`
	Product   string    `json:"product"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// DailyAggregate is one row per (calendar day, product) after aggregation.
type DailyAggregate struct {
	Date       time.Time
	Product    string
	Quantity   float64
	Revenue    float64
	AvgPrice   float64
	OrderCount int
}

// FeatureRow is a DailyAggregate enriched with calendar features.
type FeatureRow struct {
	DailyAggregate

	DayOfWeek    int // 0 = Monday .. 6 = Sunday
	DayName      string
	Month        int
	DayOfMonth   int
	WeekOfYear   int
	IsWeekend    bool
	IsFestival   bool
	FestivalName string
}
