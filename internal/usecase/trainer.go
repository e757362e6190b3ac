package usecase

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"DineCast/internal/domain/models"
	domrepo "DineCast/internal/domain/repository"
	"DineCast/internal/domain/service"
	"DineCast/internal/service/cache"
	"DineCast/internal/services/preprocess"
	"DineCast/internal/services/spikes"
	"DineCast/pkg/logger"
)

// Trainer runs a full training cycle: pull the complete sales history,
// preprocess it, measure festival spikes, fit one model per product and
// atomically publish the new generation.
type Trainer struct {
	store      domrepo.SalesStore
	pre        *preprocess.Preprocessor
	analyzer   *spikes.Analyzer
	factory    service.ModelFactory
	cache      *cache.ModelCache
	metrics    domrepo.Metrics
	log        *logger.Logger
	fitWorkers int
}

func NewTrainer(
	store domrepo.SalesStore,
	pre *preprocess.Preprocessor,
	analyzer *spikes.Analyzer,
	factory service.ModelFactory,
	modelCache *cache.ModelCache,
	metrics domrepo.Metrics,
	log *logger.Logger,
	fitWorkers int,
) *Trainer {
	if fitWorkers <= 0 {
		fitWorkers = runtime.NumCPU()
	}
	return &Trainer{
		store:      store,
		pre:        pre,
		analyzer:   analyzer,
		factory:    factory,
		cache:      modelCache,
		metrics:    metrics,
		log:        log,
		fitWorkers: fitWorkers,
	}
}

type fitResult struct {
	product string
	model   service.DemandModel
	metrics models.ModelMetrics
	err     error
}

// Train replaces the whole trained generation. A failure anywhere leaves the
// previous generation untouched.
func (t *Trainer) Train(ctx context.Context) error {
	start := time.Now()

	records, err := t.store.FetchAll(ctx)
	if err != nil {
		t.metrics.RecordError("train_fetch")
		return fmt.Errorf("train: fetch sales: %w", err)
	}

	series, err := t.pre.Run(records)
	if err != nil {
		t.metrics.RecordError("train_preprocess")
		return fmt.Errorf("train: %w", err)
	}

	analysis := t.analyzer.Analyze(series)

	products := make([]string, 0, len(series))
	for p := range series {
		products = append(products, p)
	}
	sort.Strings(products)

	// Per-product fits are independent; run them on a bounded worker pool
	// and assemble everything before the single atomic swap.
	results := make(chan fitResult, len(products))
	sem := make(chan struct{}, t.fitWorkers)
	var wg sync.WaitGroup

	trainedAt := time.Now().UTC()
	for _, product := range products {
		wg.Add(1)
		go func(product string, rows []models.FeatureRow) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- t.fitProduct(product, rows, trainedAt)
		}(product, series[product])
	}
	wg.Wait()
	close(results)

	state := &cache.TrainedState{
		Models:    make(map[string]service.DemandModel, len(products)),
		Metrics:   make(map[string]models.ModelMetrics, len(products)),
		Spikes:    analysis,
		TrainedAt: trainedAt,
	}
	for r := range results {
		if r.err != nil {
			// A product with an unusable series is skipped; lookups for it
			// will fail with ErrUnknownProduct.
			t.log.Warn("skipping product",
				logger.String("product", r.product),
				logger.Error(r.err),
			)
			t.metrics.RecordError("train_fit")
			continue
		}
		state.Models[r.product] = r.model
		state.Metrics[r.product] = r.metrics
		t.metrics.RecordModelMAPE(r.product, r.metrics.MAPE)
	}

	if len(state.Models) == 0 {
		t.metrics.RecordError("train_empty")
		return fmt.Errorf("train: no product could be fitted")
	}

	t.cache.Replace(state)

	elapsed := time.Since(start)
	t.metrics.RecordTrainingDuration(elapsed.Seconds())
	t.log.Info("training complete",
		logger.Int("products", len(state.Models)),
		logger.Int("records", len(records)),
		logger.Duration("elapsed_ms", elapsed),
	)
	return nil
}

func (t *Trainer) fitProduct(product string, rows []models.FeatureRow, trainedAt time.Time) fitResult {
	start := time.Now()

	m := t.factory.New()
	if err := m.Fit(rows); err != nil {
		return fitResult{product: product, err: err}
	}

	// In-sample accuracy: predict over the training rows themselves.
	preds, err := m.Predict(rows)
	if err != nil {
		return fitResult{product: product, err: err}
	}

	mae, mape := accuracy(rows, preds)
	return fitResult{
		product: product,
		model:   m,
		metrics: models.ModelMetrics{
			MAE:             mae,
			MAPE:            mape,
			TrainingRows:    len(rows),
			TrainingTimeSec: round2(time.Since(start).Seconds()),
			LastTrained:     trainedAt,
		},
	}
}

// accuracy computes MAE over all rows and MAPE over rows with nonzero actual
// demand; MAPE is 0.0 when no such rows exist.
func accuracy(rows []models.FeatureRow, preds []service.Prediction) (mae, mape float64) {
	if len(rows) == 0 {
		return 0, 0
	}

	var absSum, pctSum float64
	var nonZero int
	for i, row := range rows {
		diff := math.Abs(row.Quantity - preds[i].Point)
		absSum += diff
		if row.Quantity > 0 {
			pctSum += diff / row.Quantity
			nonZero++
		}
	}

	mae = round2(absSum / float64(len(rows)))
	if nonZero > 0 {
		mape = round2(pctSum / float64(nonZero) * 100)
	}
	return mae, mape
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
