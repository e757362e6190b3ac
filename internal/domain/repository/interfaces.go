package repository

import (
	"context"

	"DineCast/internal/domain/models"
)

// SalesStore holds raw transaction records. Training pulls the full history
// on every cycle; the ingest path appends new records.
type SalesStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, s *models.SaleRecord) error
	StoreBatch(ctx context.Context, sales []*models.SaleRecord) error
	FetchAll(ctx context.Context) ([]*models.SaleRecord, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordSaleIngested(source, product string)
	RecordError(kind string)
	RecordModelMAPE(product string, mape float64)
	RecordTrainingDuration(seconds float64)
	RecordLatency(op string, seconds float64)
}
