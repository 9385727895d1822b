package analytics

import (
	"math"

	"FlowLens/internal/domain/models"
	domsvc "FlowLens/internal/domain/service"
)

// FlowEngine estimates per-bar order flow from OHLCV bars. The delta is a
// fixed fraction of bar volume signed by the bar's own close-vs-open
// direction, not a true order-book reconstruction.
type FlowEngine struct {
	cfg FlowConfig
}

func NewFlowEngine(cfg FlowConfig) *FlowEngine { return &FlowEngine{cfg: cfg} }

func (e *FlowEngine) Analyze(candles []models.Candle) models.OrderFlowReport {
	out := models.OrderFlowReport{Sentiment: models.SentimentNeutral}
	if len(candles) == 0 {
		return out
	}
	out.Symbol = candles[0].Symbol

	samples := make([]models.FlowSample, 0, len(candles))
	cvd := 0.0
	for _, c := range candles {
		sign := 0.0
		switch {
		case c.Close > c.Open:
			sign = 1
		case c.Close < c.Open:
			sign = -1
		}
		delta := c.Volume * sign * e.cfg.DeltaFraction
		cvd += delta
		samples = append(samples, models.FlowSample{
			Time:  c.Time,
			Delta: delta,
			CVD:   cvd,
			Price: c.Close,
		})
	}
	out.Samples = samples

	out.Momentum = e.momentum(samples)
	switch {
	case out.Momentum > e.cfg.SentimentBand:
		out.Sentiment = models.SentimentBullish
	case out.Momentum < -e.cfg.SentimentBand:
		out.Sentiment = models.SentimentBearish
	}

	out.Activity = e.detectActivity(candles)
	return out
}

// momentum is the percent change of CVD across the trailing window,
// relative to the CVD at the window start. A zero start substitutes 1.
func (e *FlowEngine) momentum(samples []models.FlowSample) float64 {
	if len(samples) < 2 {
		return 0
	}
	start := len(samples) - e.cfg.MomentumWindow
	if start < 0 {
		start = 0
	}
	base := samples[start].CVD
	denom := math.Abs(base)
	if denom == 0 {
		denom = 1
	}
	return (samples[len(samples)-1].CVD - base) / denom * 100
}

// detectActivity flags recent bars whose volume spikes above the trailing
// average as institutional footprints.
func (e *FlowEngine) detectActivity(candles []models.Candle) []models.InstitutionalActivity {
	if len(candles) < 2 {
		return nil
	}
	window := e.cfg.VolumeWindow
	if window > len(candles) {
		window = len(candles)
	}
	sum := 0.0
	for _, c := range candles[len(candles)-window:] {
		sum += c.Volume
	}
	avg := sum / float64(window)
	if avg <= 0 {
		return nil
	}

	recent := e.cfg.RecentBars
	if recent > len(candles) {
		recent = len(candles)
	}
	var events []models.InstitutionalActivity
	for _, c := range candles[len(candles)-recent:] {
		if c.Volume <= avg*e.cfg.SpikeMultiple {
			continue
		}
		kind := models.ActivityDistribution
		if c.Bullish() {
			kind = models.ActivityAccumulation
		}
		intensity := math.Min((c.Volume/avg-1)*100, e.cfg.IntensityCap)
		events = append(events, models.InstitutionalActivity{
			Time:       c.Time,
			Price:      c.Close,
			Volume:     c.Volume,
			Type:       kind,
			Intensity:  intensity,
			Confidence: 0.5 + 0.5*intensity/e.cfg.IntensityCap,
		})
	}
	return events
}

var _ domsvc.OrderFlowAnalyzer = (*FlowEngine)(nil)
