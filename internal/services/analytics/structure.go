package analytics

import (
	"math"

	"FlowLens/internal/domain/models"
	domsvc "FlowLens/internal/domain/service"
)

// StructureEngine detects swing highs/lows and labels structure breaks
// (BOS/CHoCH) against a running trend.
type StructureEngine struct {
	cfg StructureConfig
}

func NewStructureEngine(cfg StructureConfig) *StructureEngine { return &StructureEngine{cfg: cfg} }

func (e *StructureEngine) Analyze(candles []models.Candle) models.StructureReport {
	out := models.StructureReport{Trend: models.TrendNeutral}
	if len(candles) < e.cfg.MinBars {
		return out
	}
	out.Symbol = candles[0].Symbol

	swings := e.findSwings(candles)
	breaks, trend := e.classifyBreaks(candles, swings)

	if keep := e.cfg.KeepBreaks; len(breaks) > keep {
		breaks = breaks[len(breaks)-keep:]
	}
	out.Breaks = breaks
	out.Trend = trend
	return out
}

// findSwings marks candles whose high (low) strictly exceeds (undercuts)
// every high (low) within the symmetric window on both sides.
func (e *StructureEngine) findSwings(candles []models.Candle) []models.Swing {
	w := e.cfg.SwingWindow
	var swings []models.Swing
	for i := w; i < len(candles)-w; i++ {
		c := candles[i]
		isHigh := true
		isLow := true
		for j := i - w; j <= i+w; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= c.High {
				isHigh = false
			}
			if candles[j].Low <= c.Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			swings = append(swings, models.Swing{Time: c.Time, Price: c.High, Kind: models.SwingHigh})
		} else if isLow {
			swings = append(swings, models.Swing{Time: c.Time, Price: c.Low, Kind: models.SwingLow})
		}
	}
	return swings
}

// classifyBreaks scans consecutive swing pairs. A Low->High pair is a
// bullish break when the low sits above the second-most-recent prior low
// and the high clears the range proxy; the bearish rule mirrors it. The
// range proxy is the candle at the configured percentile index of the
// window, a deliberate recency heuristic kept from the reference rule.
func (e *StructureEngine) classifyBreaks(candles []models.Candle, swings []models.Swing) ([]models.StructureBreak, models.Trend) {
	trend := models.TrendNeutral
	var breaks []models.StructureBreak
	if len(swings) < 2 {
		return breaks, trend
	}

	proxyIdx := int(e.cfg.RangePercentile * float64(len(candles)))
	if proxyIdx >= len(candles) {
		proxyIdx = len(candles) - 1
	}
	proxyHigh := candles[proxyIdx].High
	proxyLow := candles[proxyIdx].Low

	for i := 1; i < len(swings); i++ {
		prev, cur := swings[i-1], swings[i]

		var direction models.Trend
		switch {
		case prev.Kind == models.SwingLow && cur.Kind == models.SwingHigh:
			if !e.risingLow(swings[:i-1], prev.Price) || cur.Price <= proxyHigh {
				continue
			}
			direction = models.TrendBullish
		case prev.Kind == models.SwingHigh && cur.Kind == models.SwingLow:
			if !e.fallingHigh(swings[:i-1], prev.Price) || cur.Price >= proxyLow {
				continue
			}
			direction = models.TrendBearish
		default:
			continue
		}

		kind := models.BreakBOS
		if trend != models.TrendNeutral && trend != direction {
			kind = models.BreakCHoCH
		}
		trend = direction

		strength := 0.0
		if prev.Price > 0 {
			strength = math.Abs(cur.Price-prev.Price) / prev.Price * 100
		}
		if strength > e.cfg.StrengthCap {
			strength = e.cfg.StrengthCap
		}
		breaks = append(breaks, models.StructureBreak{
			Time:      cur.Time,
			Type:      kind,
			Direction: direction,
			Price:     cur.Price,
			Strength:  strength,
		})
	}
	return breaks, trend
}

// risingLow reports whether price exceeds the second-most-recent low among
// the last few prior swings.
func (e *StructureEngine) risingLow(prior []models.Swing, price float64) bool {
	lows := e.lastOfKind(prior, models.SwingLow)
	if len(lows) < 2 {
		return false
	}
	return price > lows[len(lows)-2]
}

func (e *StructureEngine) fallingHigh(prior []models.Swing, price float64) bool {
	highs := e.lastOfKind(prior, models.SwingHigh)
	if len(highs) < 2 {
		return false
	}
	return price < highs[len(highs)-2]
}

func (e *StructureEngine) lastOfKind(swings []models.Swing, kind models.SwingKind) []float64 {
	var prices []float64
	for _, s := range swings {
		if s.Kind == kind {
			prices = append(prices, s.Price)
		}
	}
	if len(prices) > e.cfg.PriorSwings {
		prices = prices[len(prices)-e.cfg.PriorSwings:]
	}
	return prices
}

var _ domsvc.StructureAnalyzer = (*StructureEngine)(nil)
