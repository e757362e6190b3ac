package service

import (
	"time"

	"DineCast/internal/domain/models"
)

// Prediction is one day of raw model output before clamping and blending.
type Prediction struct {
	Point float64
	Lower float64
	Upper float64
}

// DemandModel is an opaque fitted decomposable time-series model.
// Fit consumes one chronologically ordered per-product series; Predict
// runs inference over a future feature frame of the same shape.
type DemandModel interface {
	Fit(series []models.FeatureRow) error
	Predict(future []models.FeatureRow) ([]Prediction, error)
}

// ModelFactory builds a fresh untrained model per product per training cycle.
type ModelFactory interface {
	New() DemandModel
}

// FestivalCalendar resolves a calendar date to a festival display name.
// Implementations compose an exact-date historical table with a rule
// generator for recurring holidays.
type FestivalCalendar interface {
	Lookup(date time.Time) (string, bool)
}
