package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
)

// makeSeries builds a contiguous daily series with a weekly pattern:
// weekdays at base, weekends at base*weekendLift.
func makeSeries(start time.Time, days int, base, weekendLift float64) []models.FeatureRow {
	rows := make([]models.FeatureRow, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		wd := date.Weekday()
		weekend := wd == time.Saturday || wd == time.Sunday
		qty := base
		if weekend {
			qty = base * weekendLift
		}
		row := models.FeatureRow{
			DailyAggregate: models.DailyAggregate{Date: date, Quantity: qty},
		}
		row.IsWeekend = weekend
		rows = append(rows, row)
	}
	return rows
}

func futureFrame(start time.Time, days int) []models.FeatureRow {
	rows := make([]models.FeatureRow, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		wd := date.Weekday()
		row := models.FeatureRow{DailyAggregate: models.DailyAggregate{Date: date}}
		row.IsWeekend = wd == time.Saturday || wd == time.Sunday
		rows = append(rows, row)
	}
	return rows
}

func TestFitRequiresData(t *testing.T) {
	m := NewFactory().New()
	err := m.Fit(nil)
	require.Error(t, err)
}

func TestPredictRequiresFit(t *testing.T) {
	m := NewFactory().New()
	_, err := m.Predict(futureFrame(time.Now(), 7))
	require.Error(t, err)
}

func TestFitFlatSeriesPredictsNearBase(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := makeSeries(start, 400, 500, 1.0)

	m := NewFactory().New()
	require.NoError(t, m.Fit(series))

	preds, err := m.Predict(futureFrame(start.AddDate(0, 0, 400), 14))
	require.NoError(t, err)
	require.Len(t, preds, 14)

	for _, p := range preds {
		assert.InDelta(t, 500.0, p.Point, 25.0)
		assert.LessOrEqual(t, p.Lower, p.Point)
		assert.GreaterOrEqual(t, p.Upper, p.Point)
	}
}

func TestFitLearnsWeekendLift(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := makeSeries(start, 420, 500, 1.4)

	m := NewFactory().New()
	require.NoError(t, m.Fit(series))

	preds, err := m.Predict(futureFrame(start.AddDate(0, 0, 420), 14))
	require.NoError(t, err)

	future := futureFrame(start.AddDate(0, 0, 420), 14)
	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int
	for i, p := range preds {
		if future[i].IsWeekend {
			weekendSum += p.Point
			weekendN++
		} else {
			weekdaySum += p.Point
			weekdayN++
		}
	}
	require.Positive(t, weekendN)
	require.Positive(t, weekdayN)
	assert.Greater(t, weekendSum/float64(weekendN), weekdaySum/float64(weekdayN))
}

func TestFitLearnsTrendDirection(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make([]models.FeatureRow, 0, 400)
	for i := 0; i < 400; i++ {
		date := start.AddDate(0, 0, i)
		row := models.FeatureRow{
			DailyAggregate: models.DailyAggregate{Date: date, Quantity: 300 + float64(i)},
		}
		wd := date.Weekday()
		row.IsWeekend = wd == time.Saturday || wd == time.Sunday
		series = append(series, row)
	}

	m := NewFactory().New()
	require.NoError(t, m.Fit(series))

	preds, err := m.Predict(futureFrame(start.AddDate(0, 0, 400), 30))
	require.NoError(t, err)
	assert.Greater(t, preds[29].Point, preds[0].Point)
}

func TestIntervalWidensWithHorizon(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := makeSeries(start, 400, 500, 1.2)

	m := NewFactory().New()
	require.NoError(t, m.Fit(series))

	preds, err := m.Predict(futureFrame(start.AddDate(0, 0, 400), 30))
	require.NoError(t, err)

	firstWidth := preds[0].Upper - preds[0].Lower
	lastWidth := preds[29].Upper - preds[29].Lower
	assert.Greater(t, lastWidth, firstWidth)
}
