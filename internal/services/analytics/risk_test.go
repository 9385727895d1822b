package analytics

import (
	"math"
	"testing"

	"FlowLens/internal/domain/models"
)

func longFixedParams() models.RiskParameters {
	return models.RiskParameters{
		Symbol:           "BTCUSDT",
		Equity:           10000,
		RiskPercent:      2,
		Leverage:         5,
		Side:             models.SideLong,
		StopType:         models.StopFixed,
		FixedStopPercent: 3,
		Timeframe:        "1m",
	}
}

func liquidTicker(price float64) models.Ticker {
	return models.Ticker{Symbol: "BTCUSDT", LastPrice: price, Volume24h: 50_000_000}
}

func TestRiskFixedStopLongScenario(t *testing.T) {
	e := NewRiskEngine(DefaultRiskConfig())
	a := e.Assess(longFixedParams(), nil, liquidTicker(100))
	p := a.Position

	if math.Abs(p.StopDistance-3) > 1e-9 {
		t.Fatalf("stop distance = %v, want 3", p.StopDistance)
	}
	if math.Abs(p.Stop-97) > 1e-9 || math.Abs(p.Target-106) > 1e-9 {
		t.Fatalf("stop/target = %v/%v, want 97/106", p.Stop, p.Target)
	}
	if math.Abs(p.MaxLoss-200) > 1e-9 {
		t.Fatalf("max loss = %v, want 200", p.MaxLoss)
	}
	if math.Abs(p.PositionSize-200.0/3) > 1e-6 {
		t.Fatalf("position size = %v, want %v", p.PositionSize, 200.0/3)
	}
	if math.Abs(p.MaxProfit-400) > 1e-6 {
		t.Fatalf("max profit = %v, want 400", p.MaxProfit)
	}
	// margin = size * price, ROI consistent with it
	wantMargin := p.PositionSize * 100
	if math.Abs(p.MarginRequired-wantMargin) > 1e-6 {
		t.Fatalf("margin = %v, want %v", p.MarginRequired, wantMargin)
	}
	if math.Abs(p.ROI-p.MaxProfit/p.MarginRequired*100) > 1e-9 {
		t.Fatalf("ROI = %v inconsistent with margin", p.ROI)
	}
	if !(p.Stop < p.Entry && p.Entry < p.Target) {
		t.Fatalf("long ordering violated: stop %v entry %v target %v", p.Stop, p.Entry, p.Target)
	}
	// sizing invariant
	if math.Abs(p.PositionSize*p.StopDistance-200) > 1e-6 {
		t.Fatalf("size*stopDistance = %v, want riskAmount 200", p.PositionSize*p.StopDistance)
	}
}

func TestRiskShortOrdering(t *testing.T) {
	params := longFixedParams()
	params.Side = models.SideShort
	e := NewRiskEngine(DefaultRiskConfig())
	p := e.Assess(params, nil, liquidTicker(100)).Position
	if !(p.Target < p.Entry && p.Entry < p.Stop) {
		t.Fatalf("short ordering violated: target %v entry %v stop %v", p.Target, p.Entry, p.Stop)
	}
}

func TestRiskCriticalWarningIffLeverageAbove20(t *testing.T) {
	e := NewRiskEngine(DefaultRiskConfig())

	hasCritical := func(ws []models.RiskWarning) bool {
		for _, w := range ws {
			if w.Level == models.WarnCritical {
				return true
			}
		}
		return false
	}

	params := longFixedParams()
	params.Leverage = 25
	if !hasCritical(e.Assess(params, nil, liquidTicker(100)).Warnings) {
		t.Fatalf("leverage 25 must raise a critical warning")
	}
	params.Leverage = 20
	if hasCritical(e.Assess(params, nil, liquidTicker(100)).Warnings) {
		t.Fatalf("leverage 20 must not raise a critical warning")
	}
}

func TestRiskATRStop(t *testing.T) {
	// constant 2-point bars give ATR = 2
	candles := make([]models.Candle, 0, 20)
	for i := 0; i < 20; i++ {
		candles = append(candles, bar(i, 100, 101, 99, 100, 100))
	}
	params := longFixedParams()
	params.StopType = models.StopATR
	params.ATRMultiplier = 2

	e := NewRiskEngine(DefaultRiskConfig())
	p := e.Assess(params, candles, liquidTicker(100)).Position
	if math.Abs(p.StopDistance-4) > 1e-9 {
		t.Fatalf("stop distance = %v, want ATR 2 x mult 2 = 4", p.StopDistance)
	}
}

func TestRiskATRStopFallsBackOnShortWindow(t *testing.T) {
	params := longFixedParams()
	params.StopType = models.StopATR
	e := NewRiskEngine(DefaultRiskConfig())
	p := e.Assess(params, nil, liquidTicker(100)).Position
	// no ATR available: fixed-percent fallback
	if math.Abs(p.StopDistance-3) > 1e-9 {
		t.Fatalf("stop distance = %v, want fixed fallback 3", p.StopDistance)
	}
}

func TestRiskSupportResistanceStop(t *testing.T) {
	// a clear local minimum at 95 inside the window
	prices := []float64{100, 99, 98, 95, 98, 99, 100, 100, 100, 100}
	candles := make([]models.Candle, len(prices))
	for i, p := range prices {
		candles[i] = bar(i, p, p+0.5, p-0.5, p, 100)
	}
	params := longFixedParams()
	params.StopType = models.StopSR

	e := NewRiskEngine(DefaultRiskConfig())
	a := e.Assess(params, candles, liquidTicker(100))
	if len(a.Supports) == 0 {
		t.Fatalf("expected a detected support level")
	}
	// nearest support below 100 is the 94.5 low
	if math.Abs(a.Position.StopDistance-5.5) > 1e-9 {
		t.Fatalf("stop distance = %v, want 5.5", a.Position.StopDistance)
	}
}

func TestRiskKellySizing(t *testing.T) {
	e := NewRiskEngine(DefaultRiskConfig())
	k := e.Assess(longFixedParams(), nil, liquidTicker(100)).Kelly

	// (0.6*400 - 0.4*200) / 400 = 0.4, capped at 3% of equity
	if math.Abs(k.KellyPercent-0.4) > 1e-9 {
		t.Fatalf("kelly percent = %v, want 0.4", k.KellyPercent)
	}
	if math.Abs(k.RecommendedSize-300) > 1e-9 {
		t.Fatalf("recommended size = %v, want capped 300", k.RecommendedSize)
	}
	if math.Abs(k.MaxSafeSize-500) > 1e-9 {
		t.Fatalf("max safe size = %v, want 500", k.MaxSafeSize)
	}
}

func TestRiskLiquidityGrading(t *testing.T) {
	e := NewRiskEngine(DefaultRiskConfig())
	params := longFixedParams()

	cases := []struct {
		volume float64
		want   float64
	}{
		{500_000, 80},
		{5_000_000, 40},
		{50_000_000, 15},
	}
	for _, tc := range cases {
		ticker := models.Ticker{Symbol: "X", LastPrice: 100, Volume24h: tc.volume}
		a := e.Assess(params, nil, ticker)
		if a.Market.LiquidityRisk != tc.want {
			t.Fatalf("volume %v: liquidity risk = %v, want %v", tc.volume, a.Market.LiquidityRisk, tc.want)
		}
	}

	// thin market raises a medium warning
	a := e.Assess(params, nil, models.Ticker{LastPrice: 100, Volume24h: 100_000})
	found := false
	for _, w := range a.Warnings {
		if w.Level == models.WarnMedium {
			found = true
		}
	}
	if !found {
		t.Fatalf("thin market must raise a medium warning: %+v", a.Warnings)
	}
}

func TestRiskPortfolioAggregation(t *testing.T) {
	cfg := DefaultRiskConfig()
	cfg.ReferenceBook = []models.CorrelatedPosition{
		{Symbol: "ETHUSDT", RiskPercent: 3, Correlation: 0.5},
	}
	e := NewRiskEngine(cfg)
	pr := e.Assess(longFixedParams(), nil, liquidTicker(100)).Portfolio

	if math.Abs(pr.TotalRisk-5) > 1e-9 {
		t.Fatalf("total risk = %v, want 5", pr.TotalRisk)
	}
	// sqrt(2^2 + 3^2 + 2*0.5*2*3) = sqrt(19)
	if math.Abs(pr.CorrelatedRisk-math.Sqrt(19)) > 1e-9 {
		t.Fatalf("correlated risk = %v, want sqrt(19)", pr.CorrelatedRisk)
	}
	if pr.DiversificationRatio <= 1 {
		t.Fatalf("diversification ratio = %v, want > 1", pr.DiversificationRatio)
	}
}

func TestRiskExtremeParamsNeverPanic(t *testing.T) {
	e := NewRiskEngine(DefaultRiskConfig())
	params := models.RiskParameters{
		Symbol: "X", Equity: 10000, RiskPercent: 50, Leverage: 125,
		Side: models.SideLong, StopType: models.StopFixed, FixedStopPercent: 3,
	}
	a := e.Assess(params, nil, models.Ticker{})
	if len(a.Warnings) == 0 {
		t.Fatalf("extreme parameters must surface warnings")
	}
}
