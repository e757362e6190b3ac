package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"DineCast/internal/domain/models"
	domrepo "DineCast/internal/domain/repository"
	pkgkafka "DineCast/pkg/kafka"
)

// SalesIngestHandler consumes sales events from Kafka and appends them to the
// sales store. Ingested records become visible to forecasts after the next
// training cycle.
type SalesIngestHandler struct {
	topic   string
	store   domrepo.SalesStore
	metrics domrepo.Metrics
}

func NewSalesIngestHandler(topic string, store domrepo.SalesStore, metrics domrepo.Metrics) *SalesIngestHandler {
	return &SalesIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *SalesIngestHandler) Topic() string { return h.topic }

type saleMessage struct {
	Date      string  `json:"date"`
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Handle accepts either a single sale object {date, product, quantity,
// unit_price} or a JSON array of them (backfill events).
func (h *SalesIngestHandler) Handle(ctx context.Context, b []byte) error {
	if isArray(b) {
		return h.handleBatch(ctx, b)
	}

	var m saleMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("ingest_unmarshal")
		return err
	}
	rec, err := m.toRecord()
	if err != nil {
		h.metrics.RecordError("ingest_invalid")
		return err
	}

	start := time.Now()
	err = h.store.Store(ctx, rec)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("ingest_store")
		return err
	}
	h.metrics.RecordSaleIngested("kafka", m.Product)
	return nil
}

func (h *SalesIngestHandler) handleBatch(ctx context.Context, b []byte) error {
	var msgs []saleMessage
	if err := json.Unmarshal(b, &msgs); err != nil {
		h.metrics.RecordError("ingest_unmarshal")
		return err
	}

	records := make([]*models.SaleRecord, 0, len(msgs))
	for _, m := range msgs {
		rec, err := m.toRecord()
		if err != nil {
			// One bad record does not poison the batch.
			h.metrics.RecordError("ingest_invalid")
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return fmt.Errorf("ingest: batch of %d contained no valid records", len(msgs))
	}

	start := time.Now()
	err := h.store.StoreBatch(ctx, records)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("ingest_store")
		return err
	}
	for _, rec := range records {
		h.metrics.RecordSaleIngested("kafka", rec.Product)
	}
	return nil
}

func (m saleMessage) toRecord() (*models.SaleRecord, error) {
	date, err := time.Parse("2006-01-02", m.Date)
	if err != nil {
		return nil, fmt.Errorf("ingest: bad date %q: %w", m.Date, err)
	}
	if m.Product == "" || m.Quantity <= 0 {
		return nil, fmt.Errorf("ingest: invalid record product=%q quantity=%d", m.Product, m.Quantity)
	}
	return &models.SaleRecord{
		Date:      date,
		Product:   m.Product,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}, nil
}

func isArray(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return c == '['
		}
	}
	return false
}

var _ pkgkafka.MessageHandler = (*SalesIngestHandler)(nil)
