package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FlowLens/internal/domain/models"
	domrepo "FlowLens/internal/domain/repository"
	icache "FlowLens/internal/service/cache"
	"FlowLens/internal/services/analytics"
	pkgcache "FlowLens/pkg/cache"
)

type fakeStore struct {
	candles []models.Candle
	err     error
}

func (f *fakeStore) GetCandles(_ context.Context, _ string, _, _ time.Time, _ domrepo.Timeframe) ([]models.Candle, error) {
	return f.candles, f.err
}

func (f *fakeStore) GetLatestNCandles(_ context.Context, _ string, n int, _ domrepo.Timeframe) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n < len(f.candles) {
		return f.candles[len(f.candles)-n:], nil
	}
	return f.candles, nil
}

type fakeTickers struct {
	ticker models.Ticker
	err    error
}

func (f *fakeTickers) GetTicker(_ context.Context, _ string) (models.Ticker, error) {
	return f.ticker, f.err
}

func trendCandles(n int) []models.Candle {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		base := 100.0 + float64(i%7)
		out[i] = models.Candle{
			Time:   t0.Add(time.Duration(i) * time.Minute),
			Symbol: "BTCUSDT",
			Open:   base,
			High:   base + 2,
			Low:    base - 2,
			Close:  base + 1,
			Volume: 50 + float64(i%5)*10,
		}
	}
	return out
}

func newTestService(store domrepo.CandleStore, tickers domrepo.TickerSource) *AnalysisService {
	return NewAnalysisService(
		store,
		tickers,
		analytics.NewProfileEngine(analytics.DefaultProfileConfig()),
		analytics.NewFlowEngine(analytics.DefaultFlowConfig()),
		analytics.NewStructureEngine(analytics.DefaultStructureConfig()),
		analytics.NewRiskEngine(analytics.DefaultRiskConfig()),
	)
}

func TestGetReportAllSections(t *testing.T) {
	store := &fakeStore{candles: trendCandles(60)}
	uc := NewMarketReportUseCase(newTestService(store, &fakeTickers{}))

	rep, err := uc.GetReport(context.Background(), GetReportParams{Symbol: "BTCUSDT", N: 60, Timeframe: domrepo.TF1m})
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if rep.Symbol != "BTCUSDT" {
		t.Fatalf("symbol = %q", rep.Symbol)
	}
	if rep.Profile == nil || rep.Flow == nil || rep.Structure == nil {
		t.Fatalf("missing sections: profile=%v flow=%v structure=%v", rep.Profile, rep.Flow, rep.Structure)
	}
	if rep.Errors != nil {
		t.Fatalf("unexpected errors: %v", rep.Errors)
	}
	if rep.Profile.TotalVolume <= 0 {
		t.Fatalf("profile total volume = %v", rep.Profile.TotalVolume)
	}
	if len(rep.Flow.Samples) != 60 {
		t.Fatalf("flow samples = %d", len(rep.Flow.Samples))
	}
}

func TestGetReportStoreErrorLandsInErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("clickhouse down")}
	uc := NewMarketReportUseCase(newTestService(store, &fakeTickers{}))

	rep, err := uc.GetReport(context.Background(), GetReportParams{Symbol: "BTCUSDT", Timeframe: domrepo.TF1m})
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if len(rep.Errors) != 3 {
		t.Fatalf("errors = %v, want one per engine", rep.Errors)
	}
	if rep.Profile != nil || rep.Flow != nil || rep.Structure != nil {
		t.Fatalf("sections should be nil on failure")
	}
}

func TestGetReportRequiresSymbol(t *testing.T) {
	uc := NewMarketReportUseCase(newTestService(&fakeStore{}, &fakeTickers{}))
	if _, err := uc.GetReport(context.Background(), GetReportParams{}); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}

func TestReportWarmJobRefreshesCache(t *testing.T) {
	store := &fakeStore{candles: trendCandles(40)}
	uc := NewMarketReportUseCase(newTestService(store, &fakeTickers{}))
	cache := icache.NewServiceCache(pkgcache.NewMemoryCache())
	job := NewReportWarmJob(uc, cache)

	if job.Type() != ReportWarmType {
		t.Fatalf("type = %q", job.Type())
	}

	// payload arrives from the queue as a decoded JSON map
	payload := map[string]interface{}{"symbol": "BTCUSDT", "tf": "1m", "n": float64(40)}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	b, ok, err := cache.GetBytes(icache.ReportKey("BTCUSDT", "1m", 40))
	if err != nil || !ok {
		t.Fatalf("cache miss after warm: ok=%v err=%v", ok, err)
	}
	if len(b) == 0 {
		t.Fatal("empty cached report")
	}
}

func TestReportWarmJobRejectsEmptySymbol(t *testing.T) {
	uc := NewMarketReportUseCase(newTestService(&fakeStore{}, &fakeTickers{}))
	job := NewReportWarmJob(uc, icache.NewServiceCache(pkgcache.NewMemoryCache()))
	if err := job.Handle(context.Background(), map[string]interface{}{"tf": "1m"}); err == nil {
		t.Fatal("expected error for missing symbol")
	}
}
