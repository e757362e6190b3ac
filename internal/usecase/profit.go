package usecase

import (
	"context"
	"fmt"
	"sort"

	"DineCast/internal/domain/models"
	"DineCast/internal/service/pricing"
)

// Projector converts demand forecasts into revenue/cost/profit projections.
type Projector struct {
	forecaster *Forecaster
	pricing    *pricing.Table
}

func NewProjector(forecaster *Forecaster, table *pricing.Table) *Projector {
	return &Projector{forecaster: forecaster, pricing: table}
}

// Project builds the profit projection for one product.
func (p *Projector) Project(ctx context.Context, product string, days int) (*models.ProfitProjection, error) {
	fc, err := p.forecaster.Forecast(ctx, product, days)
	if err != nil {
		return nil, err
	}
	return p.projectForecast(fc)
}

// projectForecast prices an already-computed forecast.
func (p *Projector) projectForecast(fc *models.ForecastResult) (*models.ProfitProjection, error) {
	rec, err := p.pricing.Lookup(fc.Product)
	if err != nil {
		return nil, err
	}

	daily := make([]models.ProfitProjectionRow, 0, len(fc.Daily))
	for _, day := range fc.Daily {
		// Profit uses profit_per_unit directly rather than revenue minus
		// cost, so the two paths cannot accumulate independent rounding
		// error.
		daily = append(daily, models.ProfitProjectionRow{
			ForecastPoint: day,
			Revenue:       round2(day.PredictedDemand * rec.SellPrice),
			Cost:          round2(day.PredictedDemand * rec.CostPrice),
			Profit:        round2(day.PredictedDemand * rec.ProfitPerUnit),
			ProfitLower:   round2(day.LowerBound * rec.ProfitPerUnit),
			ProfitUpper:   round2(day.UpperBound * rec.ProfitPerUnit),
		})
	}

	return &models.ProfitProjection{
		Product:     fc.Product,
		HorizonDays: fc.HorizonDays,
		GeneratedAt: fc.GeneratedAt,
		Pricing:     rec,
		Daily:       daily,
		Totals:      totals(daily),
	}, nil
}

// ProjectAll builds per-product projections plus the combined restaurant
// view over the same horizon.
func (p *Projector) ProjectAll(ctx context.Context, days int) (*models.CombinedProjection, error) {
	forecasts, err := p.forecaster.ForecastAll(ctx, days)
	if err != nil {
		return nil, err
	}

	perProduct := make(map[string]*models.ProfitProjection, len(forecasts))
	for product, fc := range forecasts {
		proj, err := p.projectForecast(fc)
		if err != nil {
			return nil, fmt.Errorf("project all: %w", err)
		}
		perProduct[product] = proj
	}
	if len(perProduct) == 0 {
		return nil, models.ErrNotTrained
	}

	combined := combineDaily(perProduct, days)

	var grandRevenue, grandProfit float64
	for _, day := range combined {
		grandRevenue += day.Revenue
		grandProfit += day.Profit
	}

	var generatedAt = forecasts[firstKey(forecasts)].GeneratedAt

	return &models.CombinedProjection{
		HorizonDays:   days,
		GeneratedAt:   generatedAt,
		Daily:         combined,
		Totals:        combinedTotals(combined),
		Ranking:       ranking(perProduct, grandProfit),
		BlendedMargin: blendedMargin(grandProfit, grandRevenue),
		PerProduct:    perProduct,
	}, nil
}

func totals(daily []models.ProfitProjectionRow) models.ProfitTotals {
	var t models.ProfitTotals
	if len(daily) == 0 {
		return t
	}

	best, worst := 0, 0
	for i, d := range daily {
		t.TotalRevenue += d.Revenue
		t.TotalCost += d.Cost
		t.TotalProfit += d.Profit
		if d.Profit > daily[best].Profit {
			best = i
		}
		if d.Profit < daily[worst].Profit {
			worst = i
		}
	}

	t.TotalRevenue = round2(t.TotalRevenue)
	t.TotalCost = round2(t.TotalCost)
	t.TotalProfit = round2(t.TotalProfit)
	t.AvgDailyProfit = round2(t.TotalProfit / float64(len(daily)))
	t.BestDay = models.ProfitDay{Date: daily[best].Date, Profit: daily[best].Profit}
	t.WorstDay = models.ProfitDay{Date: daily[worst].Date, Profit: daily[worst].Profit}
	return t
}

// combineDaily sums per-product rows into per-day totals with a per-product
// profit breakdown. All projections share the same horizon, so rows align by
// index.
func combineDaily(perProduct map[string]*models.ProfitProjection, days int) []models.CombinedDay {
	products := make([]string, 0, len(perProduct))
	for p := range perProduct {
		products = append(products, p)
	}
	sort.Strings(products)

	out := make([]models.CombinedDay, 0, days)
	for i := 0; i < days; i++ {
		day := models.CombinedDay{ByProduct: make(map[string]float64, len(products))}
		for _, product := range products {
			rows := perProduct[product].Daily
			if i >= len(rows) {
				continue
			}
			row := rows[i]
			day.Date = row.Date
			day.Revenue += row.Revenue
			day.Cost += row.Cost
			day.Profit += row.Profit
			day.ByProduct[product] = row.Profit
		}
		day.Revenue = round2(day.Revenue)
		day.Cost = round2(day.Cost)
		day.Profit = round2(day.Profit)
		out = append(out, day)
	}
	return out
}

func combinedTotals(daily []models.CombinedDay) models.ProfitTotals {
	var t models.ProfitTotals
	if len(daily) == 0 {
		return t
	}

	best, worst := 0, 0
	for i, d := range daily {
		t.TotalRevenue += d.Revenue
		t.TotalCost += d.Cost
		t.TotalProfit += d.Profit
		if d.Profit > daily[best].Profit {
			best = i
		}
		if d.Profit < daily[worst].Profit {
			worst = i
		}
	}

	t.TotalRevenue = round2(t.TotalRevenue)
	t.TotalCost = round2(t.TotalCost)
	t.TotalProfit = round2(t.TotalProfit)
	t.AvgDailyProfit = round2(t.TotalProfit / float64(len(daily)))
	t.BestDay = models.ProfitDay{Date: daily[best].Date, Profit: daily[best].Profit}
	t.WorstDay = models.ProfitDay{Date: daily[worst].Date, Profit: daily[worst].Profit}
	return t
}

// ranking orders products by total profit contribution. Shares are 0 when the
// grand total profit is 0.
func ranking(perProduct map[string]*models.ProfitProjection, grandProfit float64) []models.ProductRank {
	out := make([]models.ProductRank, 0, len(perProduct))
	for product, proj := range perProduct {
		share := 0.0
		if grandProfit > 0 {
			share = round1(proj.Totals.TotalProfit / grandProfit * 100)
		}
		out = append(out, models.ProductRank{
			Product:     product,
			TotalProfit: proj.Totals.TotalProfit,
			ProfitShare: share,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalProfit != out[j].TotalProfit {
			return out[i].TotalProfit > out[j].TotalProfit
		}
		return out[i].Product < out[j].Product
	})
	return out
}

// blendedMargin is grand profit over grand revenue as a percentage, 0 when
// revenue is 0.
func blendedMargin(grandProfit, grandRevenue float64) float64 {
	if grandRevenue <= 0 {
		return 0
	}
	return round1(grandProfit / grandRevenue * 100)
}

func firstKey(m map[string]*models.ForecastResult) string {
	for k := range m {
		return k
	}
	return ""
}
