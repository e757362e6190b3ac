package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	salesIngested    *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	modelMAPE        *prometheus.GaugeVec
	trainingDuration prometheus.Histogram
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		salesIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dinecast_sales_ingested_total",
				Help: "Total number of sales transactions ingested",
			},
			[]string{"source", "product"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dinecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		modelMAPE: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dinecast_model_mape",
				Help: "Holdout MAPE of the last trained model per product",
			},
			[]string{"product"},
		),
		trainingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dinecast_training_duration_seconds",
				Help:    "Duration of full model training runs in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dinecast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSaleIngested records one ingested sales transaction.
func (r *Recorder) RecordSaleIngested(source, product string) {
	r.salesIngested.WithLabelValues(source, product).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordModelMAPE records the holdout MAPE for a product model.
func (r *Recorder) RecordModelMAPE(product string, mape float64) {
	r.modelMAPE.WithLabelValues(product).Set(mape)
}

// RecordTrainingDuration records a full training run duration in seconds.
func (r *Recorder) RecordTrainingDuration(seconds float64) {
	r.trainingDuration.Observe(seconds)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
