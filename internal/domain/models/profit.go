package models

import "time"

// PricingRecord is one entry of the static pricing table.
type PricingRecord struct {
	Product       string  `json:"product"`
	Category      string  `json:"category,omitempty"`
	SellPrice     float64 `json:"sell_price"`
	CostPrice     float64 `json:"cost_price"`
	ProfitPerUnit float64 `json:"profit_per_unit"`
	MarginPercent float64 `json:"margin_percent"`
}

// ProfitProjectionRow extends a ForecastPoint with financial figures.
type ProfitProjectionRow struct {
	ForecastPoint

	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
	Profit      float64 `json:"profit"`
	ProfitLower float64 `json:"profit_lower"`
	ProfitUpper float64 `json:"profit_upper"`
}

// ProfitDay identifies one day by its profit figure.
type ProfitDay struct {
	Date   time.Time `json:"date"`
	Profit float64   `json:"profit"`
}

// ProfitTotals sums a projection over its horizon.
type ProfitTotals struct {
	TotalRevenue   float64   `json:"total_revenue"`
	TotalCost      float64   `json:"total_cost"`
	TotalProfit    float64   `json:"total_profit"`
	AvgDailyProfit float64   `json:"avg_daily_profit"`
	BestDay        ProfitDay `json:"best_day"`
	WorstDay       ProfitDay `json:"worst_day"`
}

// ProfitProjection is a single-product profit projection.
type ProfitProjection struct {
	Product     string                `json:"product"`
	HorizonDays int                   `json:"horizon_days"`
	GeneratedAt time.Time             `json:"generated_at"`
	Pricing     PricingRecord         `json:"pricing"`
	Daily       []ProfitProjectionRow `json:"daily_projection"`
	Totals      ProfitTotals          `json:"totals"`
}

// CombinedDay is one day of the all-products view with per-product breakdown.
type CombinedDay struct {
	Date      time.Time          `json:"date"`
	Revenue   float64            `json:"revenue"`
	Cost      float64            `json:"cost"`
	Profit    float64            `json:"profit"`
	ByProduct map[string]float64 `json:"by_product"`
}

// ProductRank is one product's contribution in the combined ranking.
type ProductRank struct {
	Product     string  `json:"product"`
	TotalProfit float64 `json:"total_profit"`
	ProfitShare float64 `json:"profit_share"`
}

// CombinedProjection is the all-products profit projection.
type CombinedProjection struct {
	HorizonDays   int                          `json:"horizon_days"`
	GeneratedAt   time.Time                    `json:"generated_at"`
	Daily         []CombinedDay                `json:"daily_projection"`
	Totals        ProfitTotals                 `json:"totals"`
	Ranking       []ProductRank                `json:"ranking"`
	BlendedMargin float64                      `json:"blended_margin"`
	PerProduct    map[string]*ProfitProjection `json:"per_product"`
}
