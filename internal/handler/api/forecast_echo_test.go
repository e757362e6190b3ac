package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
	icache "DineCast/internal/service/cache"
	"DineCast/internal/service/pricing"
	"DineCast/internal/services/calendar"
	"DineCast/internal/services/model"
	"DineCast/internal/services/preprocess"
	"DineCast/internal/services/spikes"
	"DineCast/internal/usecase"
	"DineCast/pkg/logger"
)

type flatModel struct{ point float64 }

func (flatModel) Fit([]models.FeatureRow) error { return nil }

func (m flatModel) Predict(future []models.FeatureRow) ([]service.Prediction, error) {
	out := make([]service.Prediction, len(future))
	for i := range future {
		out[i] = service.Prediction{Point: m.point, Lower: m.point - 10, Upper: m.point + 10}
	}
	return out, nil
}

type emptyStore struct{}

func (emptyStore) Init(context.Context) error                             { return nil }
func (emptyStore) Store(context.Context, *models.SaleRecord) error        { return nil }
func (emptyStore) StoreBatch(context.Context, []*models.SaleRecord) error { return nil }
func (emptyStore) FetchAll(context.Context) ([]*models.SaleRecord, error) {
	return nil, nil
}
func (emptyStore) Health(context.Context) error { return nil }
func (emptyStore) Close() error                 { return nil }

type silentMetrics struct{}

func (silentMetrics) RecordSaleIngested(string, string) {}
func (silentMetrics) RecordError(string)                {}
func (silentMetrics) RecordModelMAPE(string, float64)   {}
func (silentMetrics) RecordTrainingDuration(float64)    {}
func (silentMetrics) RecordLatency(string, float64)     {}

func newTestHandler(t *testing.T) *ForecastEchoHandler {
	t.Helper()

	log, err := logger.New(&logger.Config{Level: "error"})
	require.NoError(t, err)

	mc := icache.NewModelCache()
	mc.Replace(&icache.TrainedState{
		Models: map[string]service.DemandModel{
			"Burgers": flatModel{point: 500},
		},
		Metrics:   map[string]models.ModelMetrics{"Burgers": {TrainingRows: 365}},
		TrainedAt: time.Now().UTC(),
	})

	cal := calendar.NewComposite()
	trainer := usecase.NewTrainer(
		emptyStore{}, preprocess.New(cal), spikes.New(), model.NewFactory(),
		mc, silentMetrics{}, log, 1,
	)
	forecaster := usecase.NewForecaster(mc, trainer, cal, log)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"products": {
			"Burgers": {"category": "mains", "sellPrice": 12.99, "costPrice": 5.50}
		}
	}`), 0o644))
	table, err := pricing.Load(path)
	require.NoError(t, err)

	h := NewForecastEchoHandler(log, forecaster, usecase.NewProjector(forecaster, table), trainer, mc, emptyStore{})
	h.SetResponseCache(icache.NewTTLCache(), time.Minute)
	return h
}

func doRequest(h *ForecastEchoHandler, method, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestForecastEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/forecast?product=Burgers&days=7")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	assert.Equal(t, http.StatusOK, env.Status)

	var fc models.ForecastResult
	require.NoError(t, json.Unmarshal(env.Data, &fc))
	assert.Equal(t, "Burgers", fc.Product)
	assert.Len(t, fc.Daily, 7)
	assert.Equal(t, 7, fc.HorizonDays)
}

func TestForecastDefaultsDays(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/forecast?product=Burgers")
	env := decode(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	var fc models.ForecastResult
	require.NoError(t, json.Unmarshal(env.Data, &fc))
	assert.Equal(t, 30, fc.HorizonDays)
}

func TestForecastValidation(t *testing.T) {
	h := newTestHandler(t)

	// Embedded status carries the error; transport status stays 200.
	rec := doRequest(h, http.MethodGet, "/api/forecast")
	env := decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	rec = doRequest(h, http.MethodGet, "/api/forecast?product=Burgers&days=365")
	env = decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestForecastUnknownProductReturns404(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/forecast?product=Sushi&days=7")
	env := decode(t, rec)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestForecastResponseCaching(t *testing.T) {
	h := newTestHandler(t)

	first := doRequest(h, http.MethodGet, "/api/forecast?product=Burgers&days=7")
	second := doRequest(h, http.MethodGet, "/api/forecast?product=Burgers&days=7")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestProfitEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/profit?product=Burgers&days=7")
	env := decode(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	var proj models.ProfitProjection
	require.NoError(t, json.Unmarshal(env.Data, &proj))
	assert.Len(t, proj.Daily, 7)
	assert.Greater(t, proj.Totals.TotalProfit, 0.0)
	// 500 units x (12.99 - 5.50) profit per unit.
	assert.InDelta(t, 500*7.49, proj.Daily[0].Profit, 0.01)
}

func TestModelStatusEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/model/status")
	env := decode(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	var status models.ModelStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Trained)
	assert.Equal(t, []string{"Burgers"}, status.Products)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/health")
	env := decode(t, rec)
	assert.Equal(t, http.StatusOK, env.Status)
}
