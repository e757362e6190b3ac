package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
	"DineCast/internal/service/cache"
	"DineCast/internal/services/calendar"
	"DineCast/pkg/logger"
	"DineCast/pkg/util"
)

// SpikeBlendFactor is the share of a measured festival spike applied on top
// of the model output. The model's own festival regressor already absorbs
// part of the effect; the remaining half differentiates high-impact
// festivals from low-impact ones.
const SpikeBlendFactor = 0.5

// Forecaster generates demand forecasts from the trained cache.
type Forecaster struct {
	cache     *cache.ModelCache
	trainer   *Trainer
	festivals service.FestivalCalendar
	log       *logger.Logger
	now       func() time.Time
}

func NewForecaster(modelCache *cache.ModelCache, trainer *Trainer, festivals service.FestivalCalendar, log *logger.Logger) *Forecaster {
	return &Forecaster{
		cache:     modelCache,
		trainer:   trainer,
		festivals: festivals,
		log:       log,
		now:       time.Now,
	}
}

// Forecast predicts the next days of demand for one product. When the
// product has no trained model, a full retrain is attempted once before the
// request fails definitively.
func (f *Forecaster) Forecast(ctx context.Context, product string, days int) (*models.ForecastResult, error) {
	state := f.cache.Snapshot()
	if state == nil || state.Models[product] == nil {
		f.log.Info("no trained model, retraining", logger.String("product", product))
		if err := f.trainer.Train(ctx); err != nil {
			f.log.Error("retrain failed", logger.Error(err))
		}
		state = f.cache.Snapshot()
	}
	if state == nil {
		return nil, models.ErrNotTrained
	}
	model, ok := state.Models[product]
	if !ok {
		return nil, fmt.Errorf("product %q: %w", product, models.ErrUnknownProduct)
	}

	asOf := f.now().UTC()
	future := f.buildFutureFrame(asOf, days)

	preds, err := model.Predict(future)
	if err != nil {
		return nil, fmt.Errorf("forecast %q: %w", product, err)
	}

	daily := make([]models.ForecastPoint, 0, days)
	adjustments := make(map[string]float64)

	for i, row := range future {
		p := preds[i]

		var spikeMult *float64
		if row.IsFestival {
			mult := state.Spikes.MultiplierFor(product, calendar.TypeOf(row.FestivalName))
			// Half-boost blending; multipliers at or below 1.0 leave the
			// forecast unadjusted to avoid double-counting the model's own
			// generic festival effect.
			if mult > 1.0 {
				adjustment := 1.0 + (mult-1.0)*SpikeBlendFactor
				p.Point *= adjustment
				p.Lower *= adjustment
				p.Upper *= adjustment
			}
			rounded := round3(mult)
			spikeMult = &rounded
			adjustments[row.FestivalName] = rounded
		}

		daily = append(daily, models.ForecastPoint{
			Date:            row.Date,
			DayName:         row.DayName,
			PredictedDemand: clampWhole(p.Point),
			LowerBound:      clampWhole(p.Lower),
			UpperBound:      clampWhole(p.Upper),
			IsWeekend:       row.IsWeekend,
			IsFestival:      row.IsFestival,
			FestivalName:    row.FestivalName,
			SpikeMultiplier: spikeMult,
		})
	}

	return &models.ForecastResult{
		Product:             product,
		GeneratedAt:         asOf,
		HorizonDays:         days,
		Daily:               daily,
		Summary:             summarize(daily),
		Metrics:             state.Metrics[product],
		FestivalAdjustments: adjustments,
	}, nil
}

// ForecastAll forecasts every trained product over the same horizon.
func (f *Forecaster) ForecastAll(ctx context.Context, days int) (map[string]*models.ForecastResult, error) {
	state := f.cache.Snapshot()
	if state == nil {
		if err := f.trainer.Train(ctx); err != nil {
			return nil, fmt.Errorf("forecast all: %w", err)
		}
		state = f.cache.Snapshot()
	}
	if state == nil {
		return nil, models.ErrNotTrained
	}

	out := make(map[string]*models.ForecastResult, len(state.Models))
	for _, product := range state.Products() {
		fc, err := f.Forecast(ctx, product, days)
		if err != nil {
			f.log.Warn("forecast failed",
				logger.String("product", product),
				logger.Error(err),
			)
			continue
		}
		out[product] = fc
	}
	if len(out) == 0 {
		return nil, models.ErrNotTrained
	}
	return out, nil
}

// Status reports the trained cache state.
func (f *Forecaster) Status() models.ModelStatus {
	state := f.cache.Snapshot()
	if state == nil {
		return models.ModelStatus{Trained: false, Products: []string{}}
	}
	return models.ModelStatus{
		Trained:       true,
		Products:      state.Products(),
		LastTrained:   state.TrainedAt,
		SpikeAnalysis: state.Spikes != nil,
		Metrics:       state.Metrics,
	}
}

// buildFutureFrame creates the feature frame for the next days starting the
// day after asOf.
func (f *Forecaster) buildFutureFrame(asOf time.Time, days int) []models.FeatureRow {
	start := util.Midnight(asOf).AddDate(0, 0, 1)

	frame := make([]models.FeatureRow, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		row := models.FeatureRow{
			DailyAggregate: models.DailyAggregate{Date: date},
		}
		row.DayName = date.Weekday().String()
		row.IsWeekend = util.IsWeekend(date)
		if name, ok := f.festivals.Lookup(date); ok {
			row.IsFestival = true
			row.FestivalName = name
		}
		frame = append(frame, row)
	}
	return frame
}

func summarize(daily []models.ForecastPoint) models.ForecastSummary {
	var s models.ForecastSummary
	if len(daily) == 0 {
		return s
	}

	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int
	s.MinDailyDemand = daily[0].PredictedDemand
	peakIdx := 0

	for i, d := range daily {
		s.TotalDemand += d.PredictedDemand
		if d.PredictedDemand < s.MinDailyDemand {
			s.MinDailyDemand = d.PredictedDemand
		}
		if d.PredictedDemand > s.MaxDailyDemand {
			s.MaxDailyDemand = d.PredictedDemand
			peakIdx = i
		}
		if d.IsWeekend {
			weekendSum += d.PredictedDemand
			weekendN++
		} else {
			weekdaySum += d.PredictedDemand
			weekdayN++
		}
		if d.IsFestival {
			s.FestivalDays++
		}
	}

	s.AvgDailyDemand = round1(s.TotalDemand / float64(len(daily)))
	s.PeakDay = util.DayKey(daily[peakIdx].Date)
	if weekendN > 0 {
		s.WeekendAvg = round1(weekendSum / float64(weekendN))
	}
	if weekdayN > 0 {
		s.WeekdayAvg = round1(weekdaySum / float64(weekdayN))
	}
	return s
}

// clampWhole floors at zero and rounds to whole units; demand cannot be
// negative or fractional.
func clampWhole(x float64) float64 {
	return math.Max(0, math.Round(x))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
