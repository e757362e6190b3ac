package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
	"DineCast/internal/service/cache"
	"DineCast/internal/services/calendar"
)

// constModel returns a fixed point estimate with symmetric bounds.
type constModel struct {
	point float64
	width float64
}

func (constModel) Fit([]models.FeatureRow) error { return nil }

func (m constModel) Predict(future []models.FeatureRow) ([]service.Prediction, error) {
	out := make([]service.Prediction, len(future))
	for i := range future {
		out[i] = service.Prediction{
			Point: m.point,
			Lower: m.point - m.width,
			Upper: m.point + m.width,
		}
	}
	return out, nil
}

func trainedCache(product string, m service.DemandModel, spikes *models.SpikeAnalysis) *cache.ModelCache {
	mc := cache.NewModelCache()
	mc.Replace(&cache.TrainedState{
		Models:    map[string]service.DemandModel{product: m},
		Metrics:   map[string]models.ModelMetrics{product: {TrainingRows: 700}},
		Spikes:    spikes,
		TrainedAt: time.Now().UTC(),
	})
	return mc
}

func newForecaster(t *testing.T, mc *cache.ModelCache, asOf time.Time) *Forecaster {
	t.Helper()
	// Trainer with an empty store; used only when the cache misses.
	trainer := newTrainer(t, &fakeSalesStore{}, mc)
	f := NewForecaster(mc, trainer, calendar.NewComposite(), testLogger(t))
	f.now = func() time.Time { return asOf }
	return f
}

func TestForecastRowCountAndOrdering(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	mc := trainedCache("Burgers", constModel{point: 500, width: 60}, nil)
	f := newForecaster(t, mc, asOf)

	fc, err := f.Forecast(context.Background(), "Burgers", 30)
	require.NoError(t, err)
	require.Len(t, fc.Daily, 30)

	// Starts the day after the reference date, strictly chronological.
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), fc.Daily[0].Date)
	for i := 1; i < len(fc.Daily); i++ {
		assert.Equal(t, 24*time.Hour, fc.Daily[i].Date.Sub(fc.Daily[i-1].Date))
	}
	assert.Equal(t, 30, fc.HorizonDays)
	assert.InDelta(t, 30*500.0, fc.Summary.TotalDemand, 1e-9)
}

func TestForecastHalfBoostBlending(t *testing.T) {
	// Thanksgiving 2026 falls on Nov 26 inside a 30-day horizon from Nov 1.
	asOf := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	spikes := &models.SpikeAnalysis{
		ByProduct: map[string]map[string]models.SpikeRecord{
			"Burgers": {
				"Thanksgiving": {Multiplier: 1.6},
			},
		},
	}
	mc := trainedCache("Burgers", constModel{point: 520, width: 40}, spikes)
	f := newForecaster(t, mc, asOf)

	fc, err := f.Forecast(context.Background(), "Burgers", 30)
	require.NoError(t, err)

	var thanksgiving *models.ForecastPoint
	for i := range fc.Daily {
		if fc.Daily[i].FestivalName == "Thanksgiving 2026" {
			thanksgiving = &fc.Daily[i]
		}
	}
	require.NotNil(t, thanksgiving)

	// 520 x (1 + 0.6*0.5) = 676; bounds get the same adjustment.
	assert.Equal(t, 676.0, thanksgiving.PredictedDemand)
	assert.Equal(t, 624.0, thanksgiving.LowerBound)
	assert.Equal(t, 728.0, thanksgiving.UpperBound)
	require.NotNil(t, thanksgiving.SpikeMultiplier)
	assert.InDelta(t, 1.6, *thanksgiving.SpikeMultiplier, 1e-9)
	assert.InDelta(t, 1.6, fc.FestivalAdjustments["Thanksgiving 2026"], 1e-9)

	// Non-festival days stay at the raw model output.
	assert.Equal(t, 520.0, fc.Daily[0].PredictedDemand)
}

func TestForecastMultiplierBelowOneLeavesForecastUnchanged(t *testing.T) {
	asOf := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	spikes := &models.SpikeAnalysis{
		ByProduct: map[string]map[string]models.SpikeRecord{
			"Burgers": {
				"Thanksgiving": {Multiplier: 0.8},
			},
		},
	}
	mc := trainedCache("Burgers", constModel{point: 520, width: 40}, spikes)
	f := newForecaster(t, mc, asOf)

	fc, err := f.Forecast(context.Background(), "Burgers", 30)
	require.NoError(t, err)

	for _, d := range fc.Daily {
		if d.FestivalName == "Thanksgiving 2026" {
			assert.Equal(t, 520.0, d.PredictedDemand)
		}
	}
}

func TestForecastNonNegativity(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	// Model output dips below zero; all reported figures must be clamped.
	mc := trainedCache("Fries", constModel{point: 3, width: 50}, nil)
	f := newForecaster(t, mc, asOf)

	fc, err := f.Forecast(context.Background(), "Fries", 14)
	require.NoError(t, err)
	for _, d := range fc.Daily {
		assert.GreaterOrEqual(t, d.PredictedDemand, 0.0)
		assert.GreaterOrEqual(t, d.LowerBound, 0.0)
		assert.GreaterOrEqual(t, d.UpperBound, 0.0)
	}
}

func TestForecastUnknownProduct(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mc := trainedCache("Burgers", constModel{point: 500, width: 50}, nil)
	f := newForecaster(t, mc, asOf)

	_, err := f.Forecast(context.Background(), "Pizza", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnknownProduct)
}

func TestStatus(t *testing.T) {
	mc := cache.NewModelCache()
	f := newForecaster(t, mc, time.Now())

	status := f.Status()
	assert.False(t, status.Trained)
	assert.Empty(t, status.Products)

	mc.Replace(&cache.TrainedState{
		Models: map[string]service.DemandModel{
			"Burgers": constModel{point: 1, width: 0},
		},
		Metrics:   map[string]models.ModelMetrics{"Burgers": {}},
		TrainedAt: time.Now().UTC(),
	})

	status = f.Status()
	assert.True(t, status.Trained)
	assert.Equal(t, []string{"Burgers"}, status.Products)
}
