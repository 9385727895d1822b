package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domrepo "FlowLens/internal/domain/repository"
	icache "FlowLens/internal/service/cache"
	"FlowLens/pkg/queue"
)

// ReportWarmType is the queue message type handled by ReportWarmJob.
const ReportWarmType = "report.warm"

// ReportWarmPayload identifies the report to recompute.
type ReportWarmPayload struct {
	Symbol string `json:"symbol"`
	TF     string `json:"tf"`
	N      int    `json:"n,omitempty"`
}

// ReportWarmJob recomputes a composite market report and refreshes the
// response cache, keeping dashboard reads hot after each closed candle.
type ReportWarmJob struct {
	uc       *MarketReportUseCase
	cache    icache.BytesCache
	ttl      time.Duration
	defaultN int
}

func NewReportWarmJob(uc *MarketReportUseCase, cache icache.BytesCache) *ReportWarmJob {
	return &ReportWarmJob{uc: uc, cache: cache, ttl: 60 * time.Second, defaultN: 200}
}

// SetDefaults overrides the warmed window size and the cached report
// lifetime. Zero values keep the current setting.
func (j *ReportWarmJob) SetDefaults(n int, ttl time.Duration) {
	if n > 0 {
		j.defaultN = n
	}
	if ttl > 0 {
		j.ttl = ttl
	}
}

func (j *ReportWarmJob) Name() string { return "report-warmer" }
func (j *ReportWarmJob) Type() string { return ReportWarmType }

func (j *ReportWarmJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ReportWarmPayload](payload)
	if err != nil {
		return fmt.Errorf("parse warm payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("warm payload missing symbol")
	}
	n := p.N
	if n <= 0 {
		n = j.defaultN
	}
	tf := domrepo.NormalizeTimeframe(p.TF)

	rep, err := j.uc.GetReport(ctx, GetReportParams{Symbol: p.Symbol, N: n, Timeframe: tf})
	if err != nil {
		return fmt.Errorf("warm report %s: %w", p.Symbol, err)
	}
	b, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return j.cache.SetBytes(icache.ReportKey(p.Symbol, string(tf), n), b, j.ttl)
}

var _ queue.Job = (*ReportWarmJob)(nil)
