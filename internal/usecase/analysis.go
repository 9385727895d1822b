package usecase

import (
	"context"
	"fmt"

	"FlowLens/internal/domain/models"
	domrepo "FlowLens/internal/domain/repository"
	domsvc "FlowLens/internal/domain/service"
)

// AnalysisService fetches candle windows from the store and runs the pure
// analytic engines over them. The engines never touch I/O themselves.
type AnalysisService struct {
	store     domrepo.CandleStore
	tickers   domrepo.TickerSource
	profiler  domsvc.VolumeProfiler
	flow      domsvc.OrderFlowAnalyzer
	structure domsvc.StructureAnalyzer
	risk      domsvc.RiskAssessor
}

func NewAnalysisService(
	store domrepo.CandleStore,
	tickers domrepo.TickerSource,
	profiler domsvc.VolumeProfiler,
	flow domsvc.OrderFlowAnalyzer,
	structure domsvc.StructureAnalyzer,
	risk domsvc.RiskAssessor,
) *AnalysisService {
	return &AnalysisService{
		store:     store,
		tickers:   tickers,
		profiler:  profiler,
		flow:      flow,
		structure: structure,
		risk:      risk,
	}
}

func (s *AnalysisService) window(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	cs, err := s.store.GetLatestNCandles(ctx, symbol, n, tf)
	if err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}
	return cs, nil
}

func (s *AnalysisService) Profile(ctx context.Context, symbol string, n int, tf domrepo.Timeframe, detailed bool) (models.VolumeProfile, error) {
	cs, err := s.window(ctx, symbol, n, tf)
	if err != nil {
		return models.VolumeProfile{}, err
	}
	p := s.profiler.Profile(cs, detailed)
	p.Symbol = symbol
	return p, nil
}

func (s *AnalysisService) Flow(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) (models.OrderFlowReport, error) {
	cs, err := s.window(ctx, symbol, n, tf)
	if err != nil {
		return models.OrderFlowReport{}, err
	}
	r := s.flow.Analyze(cs)
	r.Symbol = symbol
	return r, nil
}

func (s *AnalysisService) Structure(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) (models.StructureReport, error) {
	cs, err := s.window(ctx, symbol, n, tf)
	if err != nil {
		return models.StructureReport{}, err
	}
	r := s.structure.Analyze(cs)
	r.Symbol = symbol
	return r, nil
}

// Risk runs the risk engine over the latest window plus a live ticker
// snapshot. A ticker fetch failure degrades to a zero snapshot so the
// engine can still size from the last close.
func (s *AnalysisService) Risk(ctx context.Context, params models.RiskParameters, n int, tf domrepo.Timeframe) (models.RiskAssessment, error) {
	cs, err := s.window(ctx, params.Symbol, n, tf)
	if err != nil {
		return models.RiskAssessment{}, err
	}
	ticker, err := s.tickers.GetTicker(ctx, params.Symbol)
	if err != nil {
		ticker = models.Ticker{Symbol: params.Symbol}
	}
	if params.Timeframe == "" {
		params.Timeframe = string(tf)
	}
	return s.risk.Assess(params, cs, ticker), nil
}
