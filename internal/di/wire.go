//go:build wireinject
// +build wireinject

package di

import (
	"FlowLens/pkg/config"
	"FlowLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,

		// Repositories
		ProvideCandleStorage,
		ProvideCandlePublisher,
		ProvideCandleStore,
		ProvideExchangeStream,
		ProvideTickerSource,

		// Use cases
		ProvideCandleProcessor,
		ProvideCandleCollector,
		ProvideAnalysisService,
		ProvideMarketReportUseCase,
		ProvideCandlesUseCase,

		// Cache and queue
		ProvideResponseCache,
		ProvideReportWarmJob,
		ProvideWarmQueue,
		ProvideQueueService,
		ProvideKafkaCandlesHandler,

		// HTTP
		ProvideAnalysisHandler,
		ProvideCandlesHandler,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
