package analytics

import (
	"math"
	"testing"
	"time"

	"FlowLens/internal/domain/models"
)

func bar(i int, o, h, l, c, v float64) models.Candle {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.Candle{
		Time: t0.Add(time.Duration(i) * time.Minute), Symbol: "BTCUSDT",
		Open: o, High: h, Low: l, Close: c, Volume: v,
	}
}

func TestProfileDominantBucket(t *testing.T) {
	// one heavy bar trading around 100, two light bars around 105
	candles := []models.Candle{
		bar(0, 100, 100.5, 99.5, 100, 800),
		bar(1, 105, 105.5, 104.5, 105, 100),
		bar(2, 105, 105.5, 104.5, 105, 100),
	}
	e := NewProfileEngine(DefaultProfileConfig())
	p := e.Profile(candles, false)

	if math.Abs(p.TotalVolume-1000) > 1e-9 {
		t.Fatalf("total volume = %v, want 1000", p.TotalVolume)
	}
	if math.Abs(p.POC.Price-100) > 0.2 {
		t.Fatalf("POC price = %v, want ~100", p.POC.Price)
	}
	if math.Abs(p.POC.Percentage-80) > 1e-9 {
		t.Fatalf("POC percentage = %v, want 80", p.POC.Percentage)
	}
	if p.POC.Class != models.NodeHighVolume {
		t.Fatalf("POC class = %v, want hvn", p.POC.Class)
	}
}

func TestProfileConservation(t *testing.T) {
	candles := []models.Candle{
		bar(0, 100, 102, 98, 101, 350),
		bar(1, 101, 104, 100, 103, 125),
		bar(2, 103, 105, 101, 102, 500),
		bar(3, 102, 103, 99, 100, 25),
	}
	e := NewProfileEngine(DefaultProfileConfig())
	for _, detailed := range []bool{false, true} {
		p := e.Profile(candles, detailed)
		sumVol, sumPct := 0.0, 0.0
		for _, n := range p.Nodes {
			sumVol += n.Volume
			sumPct += n.Percentage
		}
		if math.Abs(sumVol-p.TotalVolume) > 1e-6 {
			t.Fatalf("detailed=%v: node volumes sum to %v, total %v", detailed, sumVol, p.TotalVolume)
		}
		if math.Abs(sumPct-100) > 1e-6 {
			t.Fatalf("detailed=%v: percentages sum to %v", detailed, sumPct)
		}
		// nodes sorted descending by price
		for i := 1; i < len(p.Nodes); i++ {
			if p.Nodes[i].Price > p.Nodes[i-1].Price {
				t.Fatalf("detailed=%v: nodes not sorted descending by price", detailed)
			}
		}
	}
}

func TestProfileValueAreaCoverage(t *testing.T) {
	candles := []models.Candle{
		bar(0, 100, 101, 99, 100, 600),
		bar(1, 102, 103, 101, 102, 250),
		bar(2, 104, 105, 103, 104, 150),
	}
	e := NewProfileEngine(DefaultProfileConfig())
	p := e.Profile(candles, false)

	inVA := 0.0
	for _, n := range p.Nodes {
		if n.Price >= p.ValueAreaLow && n.Price <= p.ValueAreaHigh {
			inVA += n.Volume
		}
	}
	if inVA < 0.7*p.TotalVolume {
		t.Fatalf("value area covers %v of %v, want >= 70%%", inVA, p.TotalVolume)
	}
	if p.ValueAreaHigh < p.ValueAreaLow {
		t.Fatalf("VAH %v < VAL %v", p.ValueAreaHigh, p.ValueAreaLow)
	}
}

func TestProfileDegenerateInput(t *testing.T) {
	e := NewProfileEngine(DefaultProfileConfig())

	p := e.Profile(nil, false)
	if len(p.Nodes) != 0 || p.TotalVolume != 0 {
		t.Fatalf("empty window must yield empty profile: %+v", p)
	}

	// zero traded volume
	p = e.Profile([]models.Candle{bar(0, 100, 101, 99, 100, 0)}, false)
	if len(p.Nodes) != 0 || p.TotalVolume != 0 {
		t.Fatalf("zero volume must yield empty profile: %+v", p)
	}

	// zero price range collapses into a single bucket, no division by zero
	p = e.Profile([]models.Candle{bar(0, 100, 100, 100, 100, 500)}, true)
	if len(p.Nodes) != 1 {
		t.Fatalf("flat window must yield one node, got %d", len(p.Nodes))
	}
	if math.Abs(p.Nodes[0].Volume-500) > 1e-9 || math.Abs(p.Nodes[0].Price-100) > 1e-9 {
		t.Fatalf("unexpected flat-window node: %+v", p.Nodes[0])
	}
}

func TestProfileBias(t *testing.T) {
	e := NewProfileEngine(DefaultProfileConfig())
	// heavy trade low in the range, last close far above it
	candles := []models.Candle{
		bar(0, 100, 100.5, 99.5, 100, 900),
		bar(1, 100, 110.5, 99.5, 110, 50),
	}
	p := e.Profile(candles, false)
	if p.Bias != models.BiasBullish {
		t.Fatalf("bias = %v, want bullish", p.Bias)
	}
	if len(p.Levels) < 3 || p.Levels[0].Label != "poc" {
		t.Fatalf("levels must be anchored at POC: %+v", p.Levels)
	}
}
