package analytics

import (
	"fmt"
	"math"
	"sort"

	"FlowLens/internal/domain/models"
	domsvc "FlowLens/internal/domain/service"
	"FlowLens/internal/services/features"
)

// RiskEngine derives entry/stop/target, position sizing, portfolio
// aggregation and Kelly sizing from risk parameters and a candle window.
// Out-of-range parameters produce graded warnings, never errors.
type RiskEngine struct {
	cfg RiskConfig
}

func NewRiskEngine(cfg RiskConfig) *RiskEngine { return &RiskEngine{cfg: cfg} }

func (e *RiskEngine) Assess(params models.RiskParameters, candles []models.Candle, ticker models.Ticker) models.RiskAssessment {
	out := models.RiskAssessment{Symbol: params.Symbol}

	entry := ticker.LastPrice
	if entry <= 0 && len(candles) > 0 {
		entry = candles[len(candles)-1].Close
	}
	atr := features.ATR(candles, e.cfg.ATRPeriod)
	supports, resistances := e.findLevels(candles)
	out.Supports = supports
	out.Resistances = resistances

	stopDistance := e.stopDistance(params, entry, atr, supports, resistances)
	out.Position = e.position(params, entry, stopDistance)
	out.Portfolio = e.portfolio(params)
	out.Market = models.MarketRisk{
		ATR:                  atr,
		AnnualizedVolatility: features.AnnualizedVolatility(candles, params.Timeframe),
		LiquidityRisk:        e.liquidityRisk(ticker.Volume24h),
		LeverageRisk:         math.Max(0, (params.Leverage-e.cfg.LeverageKnee)*e.cfg.LeverageSlope),
	}
	out.Kelly = e.kelly(params, out.Position)
	out.Warnings = e.warnings(params, out)
	return out
}

// findLevels collects local extrema with a narrow symmetric window and
// keeps the most recent few per side.
func (e *RiskEngine) findLevels(candles []models.Candle) (supports, resistances []float64) {
	w := e.cfg.SRWindow
	for i := w; i < len(candles)-w; i++ {
		isHigh := true
		isLow := true
		for j := i - w; j <= i+w; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= candles[i].High {
				isHigh = false
			}
			if candles[j].Low <= candles[i].Low {
				isLow = false
			}
		}
		if isHigh {
			resistances = append(resistances, candles[i].High)
		}
		if isLow {
			supports = append(supports, candles[i].Low)
		}
	}
	if len(supports) > e.cfg.SRKeep {
		supports = supports[len(supports)-e.cfg.SRKeep:]
	}
	if len(resistances) > e.cfg.SRKeep {
		resistances = resistances[len(resistances)-e.cfg.SRKeep:]
	}
	return supports, resistances
}

// stopDistance applies the configured stop policy, falling back through
// ATR and fixed-percent distances when inputs degenerate.
func (e *RiskEngine) stopDistance(params models.RiskParameters, entry, atr float64, supports, resistances []float64) float64 {
	fixedPct := params.FixedStopPercent
	if fixedPct <= 0 {
		fixedPct = e.cfg.DefaultFixedStopPercent
	}
	fixed := entry * fixedPct / 100

	switch params.StopType {
	case models.StopATR:
		mult := params.ATRMultiplier
		if mult <= 0 {
			mult = e.cfg.DefaultATRMultiplier
		}
		if atr > 0 {
			return atr * mult
		}
		return fixed
	case models.StopSR:
		if d, ok := e.nearestLevelDistance(params.Side, entry, supports, resistances); ok {
			return d
		}
		if atr > 0 {
			return atr * e.cfg.SRFallbackATRMultiple
		}
		return fixed
	default:
		return fixed
	}
}

func (e *RiskEngine) nearestLevelDistance(side models.Side, entry float64, supports, resistances []float64) (float64, bool) {
	var candidates []float64
	if side == models.SideShort {
		for _, r := range resistances {
			if r > entry {
				candidates = append(candidates, r-entry)
			}
		}
	} else {
		for _, s := range supports {
			if s < entry {
				candidates = append(candidates, entry-s)
			}
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Float64s(candidates)
	return candidates[0], true
}

func (e *RiskEngine) position(params models.RiskParameters, entry, stopDistance float64) models.PositionCalculation {
	pos := models.PositionCalculation{
		Entry:        entry,
		StopDistance: stopDistance,
		RiskReward:   e.cfg.RewardRisk,
	}
	if entry <= 0 || stopDistance <= 0 {
		return pos
	}
	if params.Side == models.SideShort {
		pos.Stop = entry + stopDistance
		pos.Target = entry - e.cfg.RewardRisk*stopDistance
	} else {
		pos.Stop = entry - stopDistance
		pos.Target = entry + e.cfg.RewardRisk*stopDistance
	}

	riskAmount := params.Equity * params.RiskPercent / 100
	pos.PositionSize = riskAmount / stopDistance
	pos.LeveragedSize = pos.PositionSize * params.Leverage
	if params.Leverage > 0 {
		pos.MarginRequired = pos.LeveragedSize * entry / params.Leverage
	}
	pos.MaxLoss = riskAmount
	pos.MaxProfit = e.cfg.RewardRisk * stopDistance * pos.PositionSize
	if pos.MarginRequired > 0 {
		pos.ROI = pos.MaxProfit / pos.MarginRequired * 100
	}
	return pos
}

// portfolio aggregates the target position against the fixed reference
// book using pairwise correlation-weighted cross terms.
func (e *RiskEngine) portfolio(params models.RiskParameters) models.PortfolioRisk {
	book := e.cfg.ReferenceBook
	pr := models.PortfolioRisk{Positions: book}

	total := params.RiskPercent
	variance := params.RiskPercent * params.RiskPercent
	for _, p := range book {
		total += p.RiskPercent
		variance += p.RiskPercent*p.RiskPercent + 2*p.Correlation*params.RiskPercent*p.RiskPercent
	}
	if variance < 0 {
		variance = 0
	}
	pr.TotalRisk = total
	pr.CorrelatedRisk = math.Sqrt(variance)
	if pr.CorrelatedRisk > 0 {
		pr.DiversificationRatio = pr.TotalRisk / pr.CorrelatedRisk
	}
	return pr
}

func (e *RiskEngine) liquidityRisk(volume24h float64) float64 {
	switch {
	case volume24h < e.cfg.LiquidityLowVolume:
		return e.cfg.LiquidityHighRisk
	case volume24h < e.cfg.LiquidityMidVolume:
		return e.cfg.LiquidityMidRisk
	default:
		return e.cfg.LiquidityLowRisk
	}
}

func (e *RiskEngine) kelly(params models.RiskParameters, pos models.PositionCalculation) models.KellySizing {
	k := models.KellySizing{
		WinRate:     e.cfg.KellyWinRate,
		AvgWin:      pos.MaxProfit,
		AvgLoss:     pos.MaxLoss,
		MaxSafeSize: params.Equity * e.cfg.MaxSafeFraction,
	}
	if k.AvgWin <= 0 {
		return k
	}
	k.KellyPercent = (k.WinRate*k.AvgWin - (1-k.WinRate)*k.AvgLoss) / k.AvgWin
	recommended := math.Min(k.KellyPercent*params.Equity, params.Equity*e.cfg.KellyCapFraction)
	if recommended < 0 {
		recommended = 0
	}
	k.RecommendedSize = recommended
	return k
}

func (e *RiskEngine) warnings(params models.RiskParameters, a models.RiskAssessment) []models.RiskWarning {
	var ws []models.RiskWarning
	if params.RiskPercent > e.cfg.WarnRiskPercent {
		ws = append(ws, models.RiskWarning{
			Level:          models.WarnHigh,
			Message:        fmt.Sprintf("risk per trade %.1f%% exceeds %.0f%%", params.RiskPercent, e.cfg.WarnRiskPercent),
			Recommendation: "reduce position risk to a small fraction of equity",
		})
	}
	if params.Leverage > e.cfg.WarnLeverage {
		ws = append(ws, models.RiskWarning{
			Level:          models.WarnCritical,
			Message:        fmt.Sprintf("leverage %.0fx exceeds %.0fx", params.Leverage, e.cfg.WarnLeverage),
			Recommendation: "lower leverage, liquidation distance is very small at this level",
		})
	}
	if a.Portfolio.TotalRisk > e.cfg.WarnTotalRisk {
		ws = append(ws, models.RiskWarning{
			Level:          models.WarnHigh,
			Message:        fmt.Sprintf("aggregate portfolio risk %.1f%% exceeds %.0f%%", a.Portfolio.TotalRisk, e.cfg.WarnTotalRisk),
			Recommendation: "close or trim correlated positions before adding exposure",
		})
	}
	if a.Market.LiquidityRisk > e.cfg.WarnLiquidity {
		ws = append(ws, models.RiskWarning{
			Level:          models.WarnMedium,
			Message:        "24h volume is thin for this market",
			Recommendation: "expect slippage, use smaller size and limit orders",
		})
	}
	if a.Market.AnnualizedVolatility > e.cfg.WarnVolatility {
		ws = append(ws, models.RiskWarning{
			Level:          models.WarnHigh,
			Message:        fmt.Sprintf("annualized volatility %.0f%% exceeds %.0f%%", a.Market.AnnualizedVolatility, e.cfg.WarnVolatility),
			Recommendation: "widen stops or reduce size in fast markets",
		})
	}
	return ws
}

var _ domsvc.RiskAssessor = (*RiskEngine)(nil)
