package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
)

// captureStore records what the ingest handler writes.
type captureStore struct {
	fakeSalesStore
	stored  []*models.SaleRecord
	batched [][]*models.SaleRecord
}

func (s *captureStore) Store(_ context.Context, rec *models.SaleRecord) error {
	s.stored = append(s.stored, rec)
	return nil
}

func (s *captureStore) StoreBatch(_ context.Context, recs []*models.SaleRecord) error {
	s.batched = append(s.batched, recs)
	return nil
}

func TestIngestSingleSale(t *testing.T) {
	store := &captureStore{}
	h := NewSalesIngestHandler("sales.events", store, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`{"date":"2026-08-01","product":"Burgers","quantity":3,"unit_price":12.99}`))
	require.NoError(t, err)
	require.Len(t, store.stored, 1)

	rec := store.stored[0]
	assert.Equal(t, "Burgers", rec.Product)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Empty(t, store.batched)
}

func TestIngestBatchUsesStoreBatch(t *testing.T) {
	store := &captureStore{}
	h := NewSalesIngestHandler("sales.events", store, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`[
		{"date":"2026-08-01","product":"Burgers","quantity":3,"unit_price":12.99},
		{"date":"2026-08-01","product":"Fries","quantity":5,"unit_price":3.49}
	]`))
	require.NoError(t, err)
	require.Len(t, store.batched, 1)
	assert.Len(t, store.batched[0], 2)
	assert.Empty(t, store.stored)
}

func TestIngestBatchSkipsInvalidRecords(t *testing.T) {
	store := &captureStore{}
	h := NewSalesIngestHandler("sales.events", store, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`[
		{"date":"2026-08-01","product":"Burgers","quantity":3,"unit_price":12.99},
		{"date":"not-a-date","product":"Fries","quantity":5,"unit_price":3.49},
		{"date":"2026-08-01","product":"","quantity":5,"unit_price":3.49}
	]`))
	require.NoError(t, err)
	require.Len(t, store.batched, 1)
	assert.Len(t, store.batched[0], 1)
}

func TestIngestRejectsInvalidSale(t *testing.T) {
	store := &captureStore{}
	h := NewSalesIngestHandler("sales.events", store, noopMetrics{})

	assert.Error(t, h.Handle(context.Background(), []byte(`{"date":"2026-08-01","product":"","quantity":3}`)))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"date":"01/08/2026","product":"Burgers","quantity":3}`)))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"date":"2026-08-01","product":"Burgers","quantity":0}`)))
	assert.Error(t, h.Handle(context.Background(), []byte(`not json`)))
	assert.Empty(t, store.stored)
}
