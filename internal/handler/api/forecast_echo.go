package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "DineCast/internal/domain/models"
	domrepo "DineCast/internal/domain/repository"
	icache "DineCast/internal/service/cache"
	"DineCast/internal/service/metrics"
	"DineCast/internal/service/ratelimit"
	"DineCast/internal/usecase"
	xhttp "DineCast/pkg/http"
	xlogger "DineCast/pkg/logger"
)

// ForecastEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type ForecastEchoHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.Forecaster
	projector  *usecase.Projector
	trainer    *usecase.Trainer
	models     *icache.ModelCache
	store      domrepo.SalesStore
	responses  icache.BytesCache
	ttl        time.Duration
	rl         *ratelimit.Limiter
}

func NewForecastEchoHandler(
	logger *xlogger.Logger,
	forecaster *usecase.Forecaster,
	projector *usecase.Projector,
	trainer *usecase.Trainer,
	modelCache *icache.ModelCache,
	store domrepo.SalesStore,
) *ForecastEchoHandler {
	metrics.Register()
	return &ForecastEchoHandler{
		logger:     logger,
		forecaster: forecaster,
		projector:  projector,
		trainer:    trainer,
		models:     modelCache,
		store:      store,
		ttl:        30 * time.Second,
		rl:         ratelimit.New(),
	}
}

// SetResponseCache injects a serialized-response cache with its TTL.
func (h *ForecastEchoHandler) SetResponseCache(c icache.BytesCache, ttl time.Duration) {
	h.responses = c
	if ttl > 0 {
		h.ttl = ttl
	}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/forecast/all", h.ForecastAll)
	g.GET("/profit", h.Profit)
	g.GET("/profit/all", h.ProfitAll)
	g.GET("/model/status", h.ModelStatus)
	g.POST("/model/train", h.Train)
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health store error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("sales store unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":  "ok",
		"trained": h.models.Snapshot() != nil,
	})
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	endpoint := "forecast"
	start := time.Now()
	defer func() { metrics.ForecastLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		return xhttp.TooManyRequestsResponse(c)
	}

	key := fmt.Sprintf("%s:%s:%d:g%d", endpoint, req.Product, req.Days, h.models.Generation())
	if b, ok := h.cached(endpoint, key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.forecaster.Forecast(c.Request().Context(), req.Product, req.Days)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return h.respond(c, endpoint, key, res)
}

func (h *ForecastEchoHandler) ForecastAll(c echo.Context) error {
	endpoint := "forecast_all"
	start := time.Now()
	defer func() { metrics.ForecastLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ForecastAllRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 3, 1) {
		return xhttp.TooManyRequestsResponse(c)
	}

	key := fmt.Sprintf("%s:%d:g%d", endpoint, req.Days, h.models.Generation())
	if b, ok := h.cached(endpoint, key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.forecaster.ForecastAll(c.Request().Context(), req.Days)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("forecast all usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return h.respond(c, endpoint, key, res)
}

func (h *ForecastEchoHandler) Profit(c echo.Context) error {
	endpoint := "profit"
	start := time.Now()
	defer func() { metrics.ForecastLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ProfitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		return xhttp.TooManyRequestsResponse(c)
	}

	key := fmt.Sprintf("%s:%s:%d:g%d", endpoint, req.Product, req.Days, h.models.Generation())
	if b, ok := h.cached(endpoint, key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.projector.Project(c.Request().Context(), req.Product, req.Days)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("profit usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return h.respond(c, endpoint, key, res)
}

func (h *ForecastEchoHandler) ProfitAll(c echo.Context) error {
	endpoint := "profit_all"
	start := time.Now()
	defer func() { metrics.ForecastLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ProfitAllRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 3, 1) {
		return xhttp.TooManyRequestsResponse(c)
	}

	key := fmt.Sprintf("%s:%d:g%d", endpoint, req.Days, h.models.Generation())
	if b, ok := h.cached(endpoint, key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.projector.ProjectAll(c.Request().Context(), req.Days)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("profit all usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return h.respond(c, endpoint, key, res)
}

func (h *ForecastEchoHandler) ModelStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.forecaster.Status())
}

func (h *ForecastEchoHandler) Train(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":train", 2, 0.2) {
		return xhttp.TooManyRequestsResponse(c)
	}
	if err := h.trainer.Train(c.Request().Context()); err != nil {
		h.logger.Error("train usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.AcceptedResponse(c, h.forecaster.Status())
}

// cached returns the serialized response for key when present. Keys embed the
// trained-model generation, so entries written against a stale model are never
// served after a retrain.
func (h *ForecastEchoHandler) cached(endpoint, key string) ([]byte, bool) {
	if h.responses == nil {
		return nil, false
	}
	b, ok, err := h.responses.GetBytes(key)
	if err != nil {
		h.logger.Warn("response cache get error", xlogger.Error(err))
		return nil, false
	}
	if ok {
		metrics.CacheHits.WithLabelValues(endpoint).Inc()
	}
	return b, ok
}

// respond serializes the success envelope once, stores it and writes it, so
// cache hits and misses produce byte-identical bodies.
func (h *ForecastEchoHandler) respond(c echo.Context, endpoint, key string, data interface{}) error {
	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
	if err != nil {
		h.logger.Error("response marshal error", xlogger.Error(err), xlogger.String("endpoint", endpoint))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("encode error").WithError(err))
	}
	if h.responses != nil {
		if err := h.responses.SetBytes(key, b, h.ttl); err != nil {
			h.logger.Warn("response cache set error", xlogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (h *ForecastEchoHandler) mapError(err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownProduct):
		return xhttp.NotFoundError("unknown product").WithError(err)
	case errors.Is(err, models.ErrPricingMissing):
		return xhttp.InternalError("pricing unavailable for product").WithError(err)
	case errors.Is(err, models.ErrNoSalesData):
		return xhttp.InternalError("no sales data available").WithError(err)
	case errors.Is(err, models.ErrNotTrained):
		return xhttp.InternalError("model not trained").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
