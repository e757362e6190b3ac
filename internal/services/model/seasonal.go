// Package model implements the decomposable demand model: linear trend,
// weekly and yearly Fourier seasonality fitted multiplicatively against the
// trend, plus weekend and festival 0/1 regressors whose effect also scales
// with the trend level.
package model

import (
	"fmt"
	"math"
	"time"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
)

const (
	fourierOrderWeekly = 3
	fourierOrderYearly = 8

	weeklyPeriodDays = 7.0
	yearlyPeriodDays = 365.25

	// z-score for the ~80% two-sided prediction interval.
	intervalZ = 1.28
)

// SeasonalModel is one fitted per-product demand model.
type SeasonalModel struct {
	// Trend y = k*t + m over time normalized to [0, 1].
	k, m   float64
	tMin   float64
	tScale float64

	weeklyCoeffs []float64
	yearlyCoeffs []float64

	weekendCoef  float64
	festivalCoef float64

	sigma  float64
	fitted bool
}

// Factory builds fresh SeasonalModel instances.
type Factory struct{}

// NewFactory creates the default model factory.
func NewFactory() *Factory { return &Factory{} }

// New returns an untrained model.
func (Factory) New() service.DemandModel { return &SeasonalModel{} }

// Fit estimates all model parameters from one chronologically ordered series.
func (m *SeasonalModel) Fit(series []models.FeatureRow) error {
	n := len(series)
	if n < 2 {
		return fmt.Errorf("fit: need at least 2 rows, got %d", n)
	}

	m.tMin = float64(series[0].Date.Unix())
	m.tScale = float64(series[n-1].Date.Unix()) - m.tMin
	if m.tScale == 0 {
		m.tScale = 1
	}

	t := make([]float64, n)
	y := make([]float64, n)
	for i, row := range series {
		t[i] = (float64(row.Date.Unix()) - m.tMin) / m.tScale
		y[i] = row.Quantity
	}

	m.fitTrend(t, y)

	// Seasonality is fitted on the ratio series y/trend - 1 so its effect
	// scales with the trend level rather than adding a fixed amount.
	ratios := make([]float64, n)
	for i := range series {
		trend := m.trendAt(t[i])
		if trend > 1e-9 {
			ratios[i] = y[i]/trend - 1
		}
	}

	// Fit yearly first over a year of data or more, weekly on the remainder,
	// so the two components do not both absorb the same variance.
	if series[n-1].Date.Sub(series[0].Date) >= 300*24*time.Hour {
		m.yearlyCoeffs = fitFourier(series, ratios, yearlyPeriodDays, fourierOrderYearly)
		for i, row := range series {
			ratios[i] -= seasonality(m.yearlyCoeffs, row, yearlyPeriodDays)
		}
	}
	m.weeklyCoeffs = fitFourier(series, ratios, weeklyPeriodDays, fourierOrderWeekly)

	m.fitRegressors(series, t)

	// Residual spread drives the prediction interval width.
	var sumSq float64
	for i, row := range series {
		r := y[i] - m.predictRow(row)
		sumSq += r * r
	}
	m.sigma = math.Sqrt(sumSq / float64(n))
	m.fitted = true
	return nil
}

// Predict runs inference over a future feature frame. Interval width grows
// with the horizon.
func (m *SeasonalModel) Predict(future []models.FeatureRow) ([]service.Prediction, error) {
	if !m.fitted {
		return nil, fmt.Errorf("predict: model not fitted")
	}

	out := make([]service.Prediction, len(future))
	for h, row := range future {
		point := m.predictRow(row)
		width := intervalZ * m.sigma * math.Sqrt(float64(h+1))
		out[h] = service.Prediction{
			Point: point,
			Lower: point - width,
			Upper: point + width,
		}
	}
	return out, nil
}

// fitTrend runs ordinary least squares on the normalized time axis.
func (m *SeasonalModel) fitTrend(t, y []float64) {
	var sumT, sumY, sumTY, sumT2 float64
	for i := range t {
		sumT += t[i]
		sumY += y[i]
		sumTY += t[i] * y[i]
		sumT2 += t[i] * t[i]
	}

	nf := float64(len(t))
	denom := nf*sumT2 - sumT*sumT
	if denom == 0 {
		m.k = 0
		m.m = sumY / nf
		return
	}
	m.k = (nf*sumTY - sumT*sumY) / denom
	m.m = (sumY - m.k*sumT) / nf
}

// fitRegressors estimates the weekend and festival coefficients as the mean
// remaining ratio on flagged rows after trend and seasonality are removed.
func (m *SeasonalModel) fitRegressors(series []models.FeatureRow, t []float64) {
	var weekendSum, festivalSum float64
	var weekendN, festivalN int

	for i, row := range series {
		base := m.trendAt(t[i]) * (1 + m.seasonalAt(row))
		if base <= 1e-9 {
			continue
		}
		q := row.Quantity/base - 1
		if row.IsWeekend {
			weekendSum += q
			weekendN++
		}
		if row.IsFestival {
			festivalSum += q
			festivalN++
		}
	}

	if weekendN > 0 {
		m.weekendCoef = weekendSum / float64(weekendN)
	}
	if festivalN > 0 {
		m.festivalCoef = festivalSum / float64(festivalN)
	}
}

func (m *SeasonalModel) predictRow(row models.FeatureRow) float64 {
	tNorm := (float64(row.Date.Unix()) - m.tMin) / m.tScale
	pred := m.trendAt(tNorm) * (1 + m.seasonalAt(row))
	if row.IsWeekend {
		pred *= 1 + m.weekendCoef
	}
	if row.IsFestival {
		pred *= 1 + m.festivalCoef
	}
	return pred
}

func (m *SeasonalModel) trendAt(t float64) float64 {
	return m.k*t + m.m
}

func (m *SeasonalModel) seasonalAt(row models.FeatureRow) float64 {
	s := seasonality(m.weeklyCoeffs, row, weeklyPeriodDays)
	s += seasonality(m.yearlyCoeffs, row, yearlyPeriodDays)
	// A seasonal dip below -1 would flip the sign of the prediction.
	if s < -0.95 {
		s = -0.95
	}
	return s
}

// fitFourier estimates Fourier coefficients by per-harmonic least-squares
// projection of the target series onto each sin/cos basis function.
func fitFourier(series []models.FeatureRow, target []float64, periodDays float64, order int) []float64 {
	coeffs := make([]float64, 2*order)
	periodSec := periodDays * 24 * 3600

	for k := 1; k <= order; k++ {
		var sinSum, cosSum, sinSqSum, cosSqSum float64
		for i, row := range series {
			phase := 2 * math.Pi * float64(k) * float64(row.Date.Unix()) / periodSec
			sinVal := math.Sin(phase)
			cosVal := math.Cos(phase)

			sinSum += target[i] * sinVal
			cosSum += target[i] * cosVal
			sinSqSum += sinVal * sinVal
			cosSqSum += cosVal * cosVal
		}
		if sinSqSum > 0 {
			coeffs[2*(k-1)] = sinSum / sinSqSum
		}
		if cosSqSum > 0 {
			coeffs[2*(k-1)+1] = cosSum / cosSqSum
		}
	}
	return coeffs
}

func seasonality(coeffs []float64, row models.FeatureRow, periodDays float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	periodSec := periodDays * 24 * 3600
	tSec := float64(row.Date.Unix())

	var result float64
	for k := 1; k <= len(coeffs)/2; k++ {
		phase := 2 * math.Pi * float64(k) * tSec / periodSec
		result += coeffs[2*(k-1)] * math.Sin(phase)
		result += coeffs[2*(k-1)+1] * math.Cos(phase)
	}
	return result
}
