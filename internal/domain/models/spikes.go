package models

import "time"

// Impact classes for festival demand spikes.
const (
	ImpactHigh   = "HIGH"
	ImpactMedium = "MEDIUM"
	ImpactLow    = "LOW"
)

// SpikeOccurrence is one historical festival day measured against its baseline.
type SpikeOccurrence struct {
	Date       time.Time `json:"date"`
	Festival   string    `json:"festival"`
	Demand     float64   `json:"demand"`
	Baseline   float64   `json:"baseline"`
	Multiplier float64   `json:"multiplier"`
}

// SpikeRecord pools all occurrences of one festival type for one product.
type SpikeRecord struct {
	Product       string            `json:"product"`
	FestivalType  string            `json:"festival_type"`
	Multiplier    float64           `json:"multiplier"`
	Impact        string            `json:"impact"`
	Occurrences   int               `json:"occurrences"`
	MinMultiplier float64           `json:"min_multiplier"`
	MaxMultiplier float64           `json:"max_multiplier"`
	Details       []SpikeOccurrence `json:"details,omitempty"`
}

// FestivalSummary aggregates one festival type across all products.
type FestivalSummary struct {
	FestivalType  string             `json:"festival_type"`
	AvgMultiplier float64            `json:"avg_multiplier"`
	Impact        string             `json:"impact"`
	ByProduct     map[string]float64 `json:"by_product"`
}

// SpikeOverallStats holds restaurant-wide extremes and the grand mean.
type SpikeOverallStats struct {
	HighestProduct    string  `json:"highest_product"`
	HighestFestival   string  `json:"highest_festival"`
	HighestMultiplier float64 `json:"highest_multiplier"`
	LowestProduct     string  `json:"lowest_product"`
	LowestFestival    string  `json:"lowest_festival"`
	LowestMultiplier  float64 `json:"lowest_multiplier"`
	GrandMean         float64 `json:"grand_mean"`
}

// SpikeAnalysis is the full festival spike measurement for one training cycle.
type SpikeAnalysis struct {
	ByProduct  map[string]map[string]SpikeRecord `json:"by_product"`
	ByFestival map[string]FestivalSummary        `json:"by_festival"`
	Overall    SpikeOverallStats                 `json:"overall_stats"`
	AnalyzedAt time.Time                         `json:"analyzed_at"`
}

// MultiplierFor resolves the spike multiplier for a (product, festival type)
// pair. Falls back to the cross-product festival average, then to 1.0.
func (a *SpikeAnalysis) MultiplierFor(product, festivalType string) float64 {
	if a == nil {
		return 1.0
	}
	if byType, ok := a.ByProduct[product]; ok {
		if rec, ok := byType[festivalType]; ok && rec.Multiplier > 0 {
			return rec.Multiplier
		}
	}
	if sum, ok := a.ByFestival[festivalType]; ok && sum.AvgMultiplier > 0 {
		return sum.AvgMultiplier
	}
	return 1.0
}

// ClassifyImpact maps a multiplier to its impact class.
func ClassifyImpact(multiplier float64) string {
	switch {
	case multiplier >= 1.35:
		return ImpactHigh
	case multiplier >= 1.15:
		return ImpactMedium
	default:
		return ImpactLow
	}
}
