//go:build wireinject
// +build wireinject

package di

import (
	"DineCast/pkg/config"
	"DineCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaConsumer,

		// Repositories and domain services
		ProvideSalesStore,
		ProvidePricingTable,
		ProvideFestivalCalendar,
		ProvideModelCache,
		ProvideResponseCache,

		// Use cases
		ProvideTrainer,
		ProvideForecaster,
		ProvideProjector,
		ProvideSalesIngestHandler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
