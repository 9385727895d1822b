package usecase

import (
	"context"
	"encoding/json"
	"time"

	"FlowLens/internal/domain/models"
	domrepo "FlowLens/internal/domain/repository"
	pkgkafka "FlowLens/pkg/kafka"
	"FlowLens/pkg/queue"
)

// KafkaCandlesHandler consumes candle messages and writes them to storage.
// After a successful insert it enqueues a report-warming job so cached
// dashboard reads pick the new bar up quickly.
type KafkaCandlesHandler struct {
	topic   string
	tf      string
	storage domrepo.Storage
	metrics domrepo.Metrics
	warmer  queue.QueueService // optional
}

func NewKafkaCandlesHandler(topic, tf string, storage domrepo.Storage, metrics domrepo.Metrics, warmer queue.QueueService) *KafkaCandlesHandler {
	return &KafkaCandlesHandler{topic: topic, tf: tf, storage: storage, metrics: metrics, warmer: warmer}
}

func (h *KafkaCandlesHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, t, o, h, l, c, v}
func (h *KafkaCandlesHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		T      int64   `json:"t"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.Candle{
		Time:   time.Unix(m.T, 0).UTC(),
		Symbol: m.Symbol,
		Open:   m.O,
		High:   m.H,
		Low:    m.L,
		Close:  m.C,
		Volume: m.V,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", m.Symbol)

	if h.warmer != nil {
		if err := h.warmer.PublishMessage(ctx, ReportWarmType, ReportWarmPayload{Symbol: m.Symbol, TF: h.tf}); err != nil {
			h.metrics.RecordError("warm_enqueue")
		}
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaCandlesHandler)(nil)
