// Package preprocess turns raw sales records into clean per-product daily
// feature series: aggregate per (day, product), fill calendar gaps with
// zero-demand rows and attach calendar features.
package preprocess

import (
	"fmt"
	"sort"
	"time"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
	"DineCast/pkg/util"
)

// Preprocessor builds per-product feature series from raw sales records.
type Preprocessor struct {
	festivals service.FestivalCalendar
}

// New creates a Preprocessor backed by the given festival calendar.
func New(festivals service.FestivalCalendar) *Preprocessor {
	return &Preprocessor{festivals: festivals}
}

// Run aggregates, gap-fills and featurizes the raw records. The result maps
// product name to a chronologically ordered series with exactly one row per
// calendar day in [min(date), max(date)] across all records.
func (p *Preprocessor) Run(records []*models.SaleRecord) (map[string][]models.FeatureRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("preprocess: %w", models.ErrNoSalesData)
	}

	daily := aggregate(records)
	filled := fillMissingDays(daily)

	series := make(map[string][]models.FeatureRow, len(filled))
	for product, rows := range filled {
		out := make([]models.FeatureRow, 0, len(rows))
		for _, agg := range rows {
			out = append(out, p.featurize(agg))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
		series[product] = out
	}
	return series, nil
}

type dayProduct struct {
	day     string
	product string
}

// aggregate groups records by (calendar day, product): quantities and revenue
// are summed, unit price averaged, orders counted.
func aggregate(records []*models.SaleRecord) map[dayProduct]*models.DailyAggregate {
	out := make(map[dayProduct]*models.DailyAggregate)
	priceSums := make(map[dayProduct]float64)

	for _, r := range records {
		key := dayProduct{day: util.DayKey(r.Date), product: r.Product}
		agg, ok := out[key]
		if !ok {
			agg = &models.DailyAggregate{
				Date:    util.Midnight(r.Date.UTC()),
				Product: r.Product,
			}
			out[key] = agg
		}
		agg.Quantity += float64(r.Quantity)
		agg.Revenue += r.UnitPrice * float64(r.Quantity)
		agg.OrderCount++
		priceSums[key] += r.UnitPrice
	}

	for key, agg := range out {
		agg.AvgPrice = priceSums[key] / float64(agg.OrderCount)
	}
	return out
}

// fillMissingDays builds the cartesian product of every day in range and every
// observed product, synthesizing zero rows for missing combinations. Without
// this a k-day gap would be silently treated as k days of ignored demand.
func fillMissingDays(daily map[dayProduct]*models.DailyAggregate) map[string][]models.DailyAggregate {
	var minDay, maxDay time.Time
	products := make(map[string]struct{})
	for _, agg := range daily {
		if minDay.IsZero() || agg.Date.Before(minDay) {
			minDay = agg.Date
		}
		if agg.Date.After(maxDay) {
			maxDay = agg.Date
		}
		products[agg.Product] = struct{}{}
	}

	out := make(map[string][]models.DailyAggregate, len(products))
	for product := range products {
		series := make([]models.DailyAggregate, 0, util.DaysBetween(minDay, maxDay))
		for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
			if agg, ok := daily[dayProduct{day: util.DayKey(day), product: product}]; ok {
				series = append(series, *agg)
				continue
			}
			series = append(series, models.DailyAggregate{Date: day, Product: product})
		}
		out[product] = series
	}
	return out
}

// featurize attaches calendar features to one aggregate row.
func (p *Preprocessor) featurize(agg models.DailyAggregate) models.FeatureRow {
	row := models.FeatureRow{DailyAggregate: agg}

	// Monday = 0 .. Sunday = 6.
	row.DayOfWeek = (int(agg.Date.Weekday()) + 6) % 7
	row.DayName = agg.Date.Weekday().String()
	row.Month = int(agg.Date.Month())
	row.DayOfMonth = agg.Date.Day()
	_, row.WeekOfYear = agg.Date.ISOWeek()
	row.IsWeekend = util.IsWeekend(agg.Date)

	if name, ok := p.festivals.Lookup(agg.Date); ok {
		row.IsFestival = true
		row.FestivalName = name
	}
	return row
}
