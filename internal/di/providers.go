package di

import (
	"context"
	"fmt"
	"time"

	domrepo "DineCast/internal/domain/repository"
	"DineCast/internal/domain/service"
	"DineCast/internal/handler/api"
	internalrepo "DineCast/internal/repository"
	icache "DineCast/internal/service/cache"
	"DineCast/internal/service/pricing"
	"DineCast/internal/services/calendar"
	"DineCast/internal/services/model"
	"DineCast/internal/services/preprocess"
	"DineCast/internal/services/spikes"
	"DineCast/internal/usecase"
	pkgch "DineCast/pkg/clickhouse"
	"DineCast/pkg/config"
	xhttp "DineCast/pkg/http"
	pkgkafka "DineCast/pkg/kafka"
	"DineCast/pkg/logger"
	"DineCast/pkg/metrics"
	"DineCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the sales
// schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.SalesTable
	stmts := append(
		[]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database},
		internalrepo.SchemaStatements(table)...,
	)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideSalesStore creates the ClickHouse-backed sales store.
func ProvideSalesStore(chClient *pkgch.Client, cfg *config.Config) domrepo.SalesStore {
	return internalrepo.NewClickHouseSalesStore(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.SalesTable)
}

// ProvidePricingTable loads per-product pricing from disk.
func ProvidePricingTable(cfg *config.Config) (*pricing.Table, error) {
	table, err := pricing.Load(cfg.Pricing.Path)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	return table, nil
}

// ProvideFestivalCalendar creates the festival calendar: historical dates
// first, recurring holiday rules for everything past the table.
func ProvideFestivalCalendar() service.FestivalCalendar {
	return calendar.NewComposite()
}

// ProvideModelCache creates the trained-model cache.
func ProvideModelCache() *icache.ModelCache {
	return icache.NewModelCache()
}

// ProvideTrainer creates the training use case.
func ProvideTrainer(
	store domrepo.SalesStore,
	cal service.FestivalCalendar,
	modelCache *icache.ModelCache,
	m domrepo.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Trainer {
	return usecase.NewTrainer(
		store,
		preprocess.New(cal),
		spikes.New(),
		model.NewFactory(),
		modelCache,
		m,
		l,
		cfg.Forecast.FitWorkers,
	)
}

// ProvideForecaster creates the forecasting use case.
func ProvideForecaster(
	modelCache *icache.ModelCache,
	trainer *usecase.Trainer,
	cal service.FestivalCalendar,
	l *logger.Logger,
) *usecase.Forecaster {
	return usecase.NewForecaster(modelCache, trainer, cal, l)
}

// ProvideProjector creates the profit projection use case.
func ProvideProjector(forecaster *usecase.Forecaster, table *pricing.Table) *usecase.Projector {
	return usecase.NewProjector(forecaster, table)
}

// ProvideSalesIngestHandler registers the handler for the sales topic.
func ProvideSalesIngestHandler(store domrepo.SalesStore, m domrepo.Metrics, cfg *config.Config) *usecase.SalesIngestHandler {
	return usecase.NewSalesIngestHandler(cfg.Kafka.Topic, store, m)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML. Returns
// nil when no brokers are configured; ingestion is optional.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.RetryMax, cfg.Kafka.BackoffMin, cfg.Kafka.BackoffMax),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideResponseCache picks the serialized-response cache backend. Redis when
// configured, in-process TTL cache otherwise.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Forecast.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Forecast.Redis.Addr,
			Password: cfg.Forecast.Redis.Password,
			DB:       cfg.Forecast.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	l *logger.Logger,
	forecaster *usecase.Forecaster,
	projector *usecase.Projector,
	trainer *usecase.Trainer,
	modelCache *icache.ModelCache,
	store domrepo.SalesStore,
	responses icache.BytesCache,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewForecastEchoHandler(l, forecaster, projector, trainer, modelCache, store)
	h.SetResponseCache(responses, cfg.Forecast.CacheTTL)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	trainer *usecase.Trainer,
	consumer *pkgkafka.Consumer,
	ingest *usecase.SalesIngestHandler,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, trainer, consumer, ingest, chClient, httpHandler)
}
