package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"FlowLens/internal/domain/repository"
	"FlowLens/internal/handler/api"
	mid "FlowLens/internal/middleware"
	internalrepo "FlowLens/internal/repository"
	icache "FlowLens/internal/service/cache"
	"FlowLens/internal/service/exchange"
	"FlowLens/internal/services/analytics"
	"FlowLens/internal/usecase"
	pkgcache "FlowLens/pkg/cache"
	pkgch "FlowLens/pkg/clickhouse"
	"FlowLens/pkg/config"
	xhttp "FlowLens/pkg/http"
	pkgkafka "FlowLens/pkg/kafka"
	applogger "FlowLens/pkg/logger"
	"FlowLens/pkg/metrics"
	pkgqueue "FlowLens/pkg/queue"
	"FlowLens/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const candleTable = "(bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64, source String, event_id String) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)"
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS flowlens",
		"CREATE TABLE IF NOT EXISTS flowlens.candles_1m " + candleTable,
		"CREATE TABLE IF NOT EXISTS flowlens.candles_5m " + candleTable,
		"CREATE TABLE IF NOT EXISTS flowlens.candles_1h " + candleTable,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ingestInterval(cfg *config.Config) string {
	if cfg.Exchange.Interval != "" {
		return cfg.Exchange.Interval
	}
	return string(repository.DefaultTimeframe())
}

// ProvideCandleStorage creates ClickHouse storage for the ingest interval table.
func ProvideCandleStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	table := fmt.Sprintf("%s.candles_%s", cfg.ClickHouse.Database, ingestInterval(cfg))
	return internalrepo.NewClickHouseStorage(chClient.DB(), table)
}

// ProvideCandlePublisher creates Kafka publisher repository.
func ProvideCandlePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideExchangeStream creates the exchange kline WebSocket stream.
func ProvideExchangeStream(cfg *config.Config) repository.MarketStream {
	return exchange.New(
		cfg.Exchange.WebSocketURL,
		cfg.Exchange.Symbols,
		ingestInterval(cfg),
		cfg.Exchange.ReconnectDelay,
		cfg.Exchange.PingInterval,
	)
}

// ProvideTickerSource creates the exchange REST ticker client.
func ProvideTickerSource(cfg *config.Config) repository.TickerSource {
	return exchange.NewTickerClient(cfg.Exchange.RestURL, cfg.Exchange.RestTimeout)
}

// ProvideCandleProcessor creates the candle processor use case.
func ProvideCandleProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.CandleProcessor {
	return usecase.NewCandleProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideCandleCollector creates the candle collector use case.
func ProvideCandleCollector(
	stream repository.MarketStream,
	processor *usecase.CandleProcessor,
	metrics repository.Metrics,
) *usecase.CandleCollector {
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewCandleCollector(stream, processor, metrics, pipe)
}

// ProvideCandleStore creates the read-side ClickHouse candle store.
func ProvideCandleStore(chClient *pkgch.Client, l *applogger.Logger) repository.CandleStore {
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(l)
	return store
}

func profileConfig(cfg *config.Config) analytics.ProfileConfig {
	pc := analytics.DefaultProfileConfig()
	p := cfg.Analytics.Profile
	if p.Buckets > 0 {
		pc.Buckets = p.Buckets
	}
	if p.DetailedBuckets > 0 {
		pc.DetailedBuckets = p.DetailedBuckets
	}
	if p.ValueAreaFraction > 0 {
		pc.ValueAreaPercent = p.ValueAreaFraction * 100
	}
	if p.HVNThreshold > 0 {
		pc.HVNPercent = p.HVNThreshold
	}
	if p.LVNThreshold > 0 {
		pc.LVNPercent = p.LVNThreshold
	}
	return pc
}

func flowConfig(cfg *config.Config) analytics.FlowConfig {
	fc := analytics.DefaultFlowConfig()
	f := cfg.Analytics.Flow
	if f.DeltaFraction > 0 {
		fc.DeltaFraction = f.DeltaFraction
	}
	if f.MomentumWindow > 0 {
		fc.MomentumWindow = f.MomentumWindow
	}
	if f.VolumeWindow > 0 {
		fc.VolumeWindow = f.VolumeWindow
	}
	if f.RecentBars > 0 {
		fc.RecentBars = f.RecentBars
	}
	if f.SpikeMultiple > 0 {
		fc.SpikeMultiple = f.SpikeMultiple
	}
	return fc
}

func structureConfig(cfg *config.Config) analytics.StructureConfig {
	sc := analytics.DefaultStructureConfig()
	s := cfg.Analytics.Structure
	if s.SwingWindow > 0 {
		sc.SwingWindow = s.SwingWindow
	}
	if s.MinBars > 0 {
		sc.MinBars = s.MinBars
	}
	if s.KeepBreaks > 0 {
		sc.KeepBreaks = s.KeepBreaks
	}
	return sc
}

func riskConfig(cfg *config.Config) analytics.RiskConfig {
	rc := analytics.DefaultRiskConfig()
	r := cfg.Analytics.Risk
	if r.ATRPeriod > 0 {
		rc.ATRPeriod = r.ATRPeriod
	}
	if r.MaxSafeRiskPercent > 0 {
		rc.MaxSafeFraction = r.MaxSafeRiskPercent / 100
	}
	if r.KellyWinRate > 0 {
		rc.KellyWinRate = r.KellyWinRate
	}
	return rc
}

// ProvideAnalysisService assembles the pure engines over the candle store.
func ProvideAnalysisService(
	cfg *config.Config,
	store repository.CandleStore,
	tickers repository.TickerSource,
) *usecase.AnalysisService {
	return usecase.NewAnalysisService(
		store,
		tickers,
		analytics.NewProfileEngine(profileConfig(cfg)),
		analytics.NewFlowEngine(flowConfig(cfg)),
		analytics.NewStructureEngine(structureConfig(cfg)),
		analytics.NewRiskEngine(riskConfig(cfg)),
	)
}

// ProvideMarketReportUseCase creates the composite report use case.
func ProvideMarketReportUseCase(cfg *config.Config, svc *usecase.AnalysisService) *usecase.MarketReportUseCase {
	uc := usecase.NewMarketReportUseCase(svc)
	uc.SetLimits(cfg.Analytics.Timeout, cfg.Analytics.DefaultN)
	return uc
}

// ProvideCandlesUseCase creates the raw candle read use case.
func ProvideCandlesUseCase(store repository.CandleStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideResponseCache selects layered memory+Redis or in-process cache for responses.
func ProvideResponseCache(cfg *config.Config) (icache.BytesCache, error) {
	if cfg.Redis.Enabled && cfg.Redis.Addr != "" {
		host, port := splitAddr(cfg.Redis.Addr)
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return icache.NewServiceCache(pkgcache.NewLayeredCache(rc)), nil
	}
	return icache.NewServiceCache(pkgcache.NewMemoryCache()), nil
}

// ProvideRedisClient creates the shared Redis client; nil when disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideReportWarmJob creates the report warming job.
func ProvideReportWarmJob(cfg *config.Config, report *usecase.MarketReportUseCase, cache icache.BytesCache) *usecase.ReportWarmJob {
	job := usecase.NewReportWarmJob(report, cache)
	job.SetDefaults(cfg.Queue.WarmN, cfg.Analytics.CacheTTL.Report)
	return job
}

// ProvideWarmQueue creates the Redis queue with the warm job registered; nil when Redis is disabled.
func ProvideWarmQueue(l *applogger.Logger, cfg *config.Config, client *redis.Client, job *usecase.ReportWarmJob) *pkgqueue.RedisQueue {
	if client == nil {
		return nil
	}
	q := pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, client, pkgqueue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideQueueService exposes the warm queue as a publisher; nil when absent.
func ProvideQueueService(q *pkgqueue.RedisQueue) pkgqueue.QueueService {
	if q == nil {
		return nil
	}
	return q
}

// ProvideKafkaCandlesHandler registers the handler for the candles topic.
func ProvideKafkaCandlesHandler(
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
	warmer pkgqueue.QueueService,
) *usecase.KafkaCandlesHandler {
	return usecase.NewKafkaCandlesHandler(cfg.Kafka.Topic, ingestInterval(cfg), store, metrics, warmer)
}

// ProvideAnalysisHandler creates the analytics HTTP handler.
func ProvideAnalysisHandler(
	cfg *config.Config,
	l *applogger.Logger,
	svc *usecase.AnalysisService,
	report *usecase.MarketReportUseCase,
	cache icache.BytesCache,
) *api.AnalysisHandler {
	h := api.NewAnalysisHandler(l, svc, report)
	h.SetCache(cache)
	h.SetCacheTTLs(cfg.Analytics.CacheTTL.Analysis, cfg.Analytics.CacheTTL.Report)
	return h
}

// ProvideCandlesHandler creates the raw candles HTTP handler.
func ProvideCandlesHandler(l *applogger.Logger, uc *usecase.CandlesUseCase) *api.CandlesHandler {
	return api.NewCandlesHandler(l, uc)
}

// ProvideHTTPHandler groups route registrars behind one Handler.
func ProvideHTTPHandler(ah *api.AnalysisHandler, ch *api.CandlesHandler) xhttp.Handler {
	return xhttp.Handlers{ah, ch}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.CandleCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaCandlesHandler,
	chClient *pkgch.Client,
	warmQueue *pkgqueue.RedisQueue,
	httpHandler xhttp.Handler,
) *server.App {
	// Attach hook to consumer: example NoopHook for now; can be replaced via config
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient, warmQueue, httpHandler)
	// attach candle processor to app for closing resources via collector
	if collector != nil {
		app.CandleProc = collector.Processor()
	}
	return app
}
