package models

import "time"

// ModelMetrics holds in-sample accuracy of a trained product model.
type ModelMetrics struct {
	MAE             float64   `json:"mae"`
	MAPE            float64   `json:"mape"`
	TrainingRows    int       `json:"training_rows"`
	TrainingTimeSec float64   `json:"training_time_sec"`
	LastTrained     time.Time `json:"last_trained"`
}

// ForecastPoint is one forecasted day for one product.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	DayName         string    `json:"day_name"`
	PredictedDemand float64   `json:"predicted_demand"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
	IsWeekend       bool      `json:"is_weekend"`
	IsFestival      bool      `json:"is_festival"`
	FestivalName    string    `json:"festival_name,omitempty"`
	SpikeMultiplier *float64  `json:"spike_multiplier,omitempty"`
}

// ForecastSummary aggregates a forecast horizon.
type ForecastSummary struct {
	TotalDemand    float64 `json:"total_demand"`
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	MinDailyDemand float64 `json:"min_daily_demand"`
	MaxDailyDemand float64 `json:"max_daily_demand"`
	PeakDay        string  `json:"peak_day"`
	WeekendAvg     float64 `json:"weekend_avg"`
	WeekdayAvg     float64 `json:"weekday_avg"`
	FestivalDays   int     `json:"festival_days"`
}

// ForecastResult is the full response of one forecast run.
type ForecastResult struct {
	Product             string             `json:"product"`
	GeneratedAt         time.Time          `json:"generated_at"`
	HorizonDays         int                `json:"horizon_days"`
	Daily               []ForecastPoint    `json:"daily_forecast"`
	Summary             ForecastSummary    `json:"summary"`
	Metrics             ModelMetrics       `json:"model_metrics"`
	FestivalAdjustments map[string]float64 `json:"festival_adjustments"`
}

// ModelStatus describes the current state of the trained cache.
type ModelStatus struct {
	Trained       bool                    `json:"trained"`
	Products      []string                `json:"products"`
	LastTrained   time.Time               `json:"last_trained,omitzero"`
	SpikeAnalysis bool                    `json:"spike_analysis"`
	Metrics       map[string]ModelMetrics `json:"metrics,omitempty"`
}
