// Package spikes measures festival-specific demand multipliers from
// historical per-product series. The forecaster blends these precise
// per-festival numbers over the model's single generic festival effect.
package spikes

import (
	"math"
	"sort"
	"time"

	"DineCast/internal/domain/models"
	"DineCast/internal/services/calendar"
)

// DefaultBaselineWindowDays is the ± window around a festival used to
// estimate its non-festival baseline. Short enough to avoid seasonal drift,
// long enough to average out day-to-day noise.
const DefaultBaselineWindowDays = 14

// Analyzer computes spike multipliers for every historical festival
// occurrence against a matched non-festival baseline.
type Analyzer struct {
	windowDays int
}

// New creates an Analyzer with the default baseline window.
func New() *Analyzer {
	return &Analyzer{windowDays: DefaultBaselineWindowDays}
}

// NewWithWindow creates an Analyzer with a custom baseline window.
func NewWithWindow(windowDays int) *Analyzer {
	if windowDays <= 0 {
		windowDays = DefaultBaselineWindowDays
	}
	return &Analyzer{windowDays: windowDays}
}

// Analyze measures spike multipliers for all products and festivals.
func (a *Analyzer) Analyze(series map[string][]models.FeatureRow) *models.SpikeAnalysis {
	byProduct := make(map[string]map[string]models.SpikeRecord, len(series))

	products := make([]string, 0, len(series))
	for p := range series {
		products = append(products, p)
	}
	sort.Strings(products)

	for _, product := range products {
		records := a.analyzeProduct(product, series[product])
		if len(records) > 0 {
			byProduct[product] = records
		}
	}

	return &models.SpikeAnalysis{
		ByProduct:  byProduct,
		ByFestival: groupByFestival(byProduct),
		Overall:    overallStats(byProduct),
		AnalyzedAt: time.Now().UTC(),
	}
}

// analyzeProduct pools per-occurrence multipliers by festival type for one
// product series.
func (a *Analyzer) analyzeProduct(product string, rows []models.FeatureRow) map[string]models.SpikeRecord {
	grouped := make(map[string][]models.SpikeOccurrence)

	for i, row := range rows {
		if !row.IsFestival {
			continue
		}
		festivalType := calendar.TypeOf(row.FestivalName)
		baseline := a.baseline(rows, i)

		// A zero baseline or zero festival demand carries no usable signal;
		// both degrade to "no measurable effect".
		multiplier := 1.0
		if baseline > 0 && row.Quantity > 0 {
			multiplier = row.Quantity / baseline
		}

		grouped[festivalType] = append(grouped[festivalType], models.SpikeOccurrence{
			Date:       row.Date,
			Festival:   row.FestivalName,
			Demand:     row.Quantity,
			Baseline:   round1(baseline),
			Multiplier: round3(multiplier),
		})
	}

	result := make(map[string]models.SpikeRecord, len(grouped))
	for festivalType, occurrences := range grouped {
		minMult, maxMult := occurrences[0].Multiplier, occurrences[0].Multiplier
		var sum float64
		for _, o := range occurrences {
			sum += o.Multiplier
			minMult = math.Min(minMult, o.Multiplier)
			maxMult = math.Max(maxMult, o.Multiplier)
		}
		avg := round3(sum / float64(len(occurrences)))

		result[festivalType] = models.SpikeRecord{
			Product:       product,
			FestivalType:  festivalType,
			Multiplier:    avg,
			Impact:        models.ClassifyImpact(avg),
			Occurrences:   len(occurrences),
			MinMultiplier: minMult,
			MaxMultiplier: maxMult,
			Details:       occurrences,
		}
	}
	return result
}

// baseline estimates normal demand around the festival at index i: the mean
// over the ± window, excluding the festival day and any other festival day,
// restricted to days matching the festival's own weekend/weekday status so
// an ordinary weekend effect is not counted as festival lift. Falls back to
// all non-festival days in the window when the restricted set is empty or
// sums to zero.
func (a *Analyzer) baseline(rows []models.FeatureRow, i int) float64 {
	festival := rows[i]
	windowStart := festival.Date.AddDate(0, 0, -a.windowDays)
	windowEnd := festival.Date.AddDate(0, 0, a.windowDays)

	var matched, fallback []float64
	var matchedSum float64
	for j, row := range rows {
		if j == i || row.IsFestival {
			continue
		}
		if row.Date.Before(windowStart) || row.Date.After(windowEnd) {
			continue
		}
		fallback = append(fallback, row.Quantity)
		if row.IsWeekend == festival.IsWeekend {
			matched = append(matched, row.Quantity)
			matchedSum += row.Quantity
		}
	}

	if len(matched) > 0 && matchedSum > 0 {
		return mean(matched)
	}
	if len(fallback) > 0 {
		return mean(fallback)
	}
	return 0.0
}

// groupByFestival reorganizes per-product records into a per-festival view
// averaged across products.
func groupByFestival(byProduct map[string]map[string]models.SpikeRecord) map[string]models.FestivalSummary {
	festivalMap := make(map[string]map[string]float64)
	for product, records := range byProduct {
		for festivalType, rec := range records {
			if festivalMap[festivalType] == nil {
				festivalMap[festivalType] = make(map[string]float64)
			}
			festivalMap[festivalType][product] = rec.Multiplier
		}
	}

	result := make(map[string]models.FestivalSummary, len(festivalMap))
	for festivalType, productMults := range festivalMap {
		var sum float64
		for _, m := range productMults {
			sum += m
		}
		avg := round3(sum / float64(len(productMults)))
		result[festivalType] = models.FestivalSummary{
			FestivalType:  festivalType,
			AvgMultiplier: avg,
			Impact:        models.ClassifyImpact(avg),
			ByProduct:     productMults,
		}
	}
	return result
}

// overallStats finds the extreme product x festival combinations and the
// grand mean across every measured multiplier.
func overallStats(byProduct map[string]map[string]models.SpikeRecord) models.SpikeOverallStats {
	var stats models.SpikeOverallStats
	var sum float64
	var count int

	for product, records := range byProduct {
		for festivalType, rec := range records {
			sum += rec.Multiplier
			count++
			if count == 1 || rec.Multiplier > stats.HighestMultiplier {
				stats.HighestProduct = product
				stats.HighestFestival = festivalType
				stats.HighestMultiplier = rec.Multiplier
			}
			if count == 1 || rec.Multiplier < stats.LowestMultiplier {
				stats.LowestProduct = product
				stats.LowestFestival = festivalType
				stats.LowestMultiplier = rec.Multiplier
			}
		}
	}

	if count > 0 {
		stats.GrandMean = round3(sum / float64(count))
	}
	return stats
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
