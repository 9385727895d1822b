package analytics

import (
	"math"
	"testing"
	"time"

	"FlowLens/internal/domain/models"
)

func flatBar(i int, price float64) models.Candle {
	return bar(i, price, price, price, price, 100)
}

func swingAt(i int, price float64, kind models.SwingKind) models.Swing {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.Swing{Time: t0.Add(time.Duration(i) * time.Minute), Price: price, Kind: kind}
}

func TestStructureMonotonicRiseHasNoBreaks(t *testing.T) {
	candles := make([]models.Candle, 0, 30)
	for i := 0; i < 30; i++ {
		p := 100 + float64(i)
		candles = append(candles, bar(i, p, p+0.5, p-0.5, p+0.3, 100))
	}
	e := NewStructureEngine(DefaultStructureConfig())
	r := e.Analyze(candles)
	if len(r.Breaks) != 0 {
		t.Fatalf("monotonic rise must yield no breaks, got %+v", r.Breaks)
	}
	if r.Trend != models.TrendNeutral {
		t.Fatalf("trend = %v, want neutral", r.Trend)
	}
}

func TestStructureShortWindowIsNeutral(t *testing.T) {
	e := NewStructureEngine(DefaultStructureConfig())
	r := e.Analyze([]models.Candle{flatBar(0, 100), flatBar(1, 101)})
	if r.Trend != models.TrendNeutral || len(r.Breaks) != 0 {
		t.Fatalf("short window must be neutral: %+v", r)
	}
}

func TestFindSwingsStrictness(t *testing.T) {
	e := NewStructureEngine(DefaultStructureConfig())

	// single peak at index 6 dominates both 5-bar sides
	prices := []float64{100, 101, 102, 103, 104, 105, 110, 105, 104, 103, 102, 101, 100}
	candles := make([]models.Candle, len(prices))
	for i, p := range prices {
		candles[i] = flatBar(i, p)
	}
	swings := e.findSwings(candles)
	if len(swings) != 1 || swings[0].Kind != models.SwingHigh || swings[0].Price != 110 {
		t.Fatalf("expected single swing high at 110, got %+v", swings)
	}

	// an equal high inside the window disqualifies the candidate
	candles[8] = flatBar(8, 110)
	if swings := e.findSwings(candles); len(swings) != 0 {
		t.Fatalf("tied highs must not be swings, got %+v", swings)
	}
}

func TestClassifyBreaksBOSThenCHoCH(t *testing.T) {
	e := NewStructureEngine(DefaultStructureConfig())

	// flat window keeps the percentile range proxy at 100
	candles := make([]models.Candle, 20)
	for i := range candles {
		candles[i] = flatBar(i, 100)
	}

	swings := []models.Swing{
		swingAt(0, 90, models.SwingLow),
		swingAt(1, 101, models.SwingHigh),
		swingAt(2, 92, models.SwingLow),
		swingAt(3, 103, models.SwingHigh),
		swingAt(4, 95, models.SwingLow),
		swingAt(5, 106, models.SwingHigh),
		swingAt(6, 93, models.SwingLow),
		swingAt(7, 100, models.SwingHigh),
		swingAt(8, 85, models.SwingLow),
	}
	breaks, trend := e.classifyBreaks(candles, swings)

	if len(breaks) != 2 {
		t.Fatalf("expected 2 breaks, got %+v", breaks)
	}
	first, second := breaks[0], breaks[1]
	if first.Type != models.BreakBOS || first.Direction != models.TrendBullish {
		t.Fatalf("first break = %+v, want bullish BOS", first)
	}
	// trend was bullish, so the bearish break is a change of character
	if second.Type != models.BreakCHoCH || second.Direction != models.TrendBearish {
		t.Fatalf("second break = %+v, want bearish CHoCH", second)
	}
	if trend != models.TrendBearish {
		t.Fatalf("trend = %v, want bearish", trend)
	}
	// both excursions exceed the cap
	if math.Abs(first.Strength-10) > 1e-9 || math.Abs(second.Strength-10) > 1e-9 {
		t.Fatalf("strengths = %v %v, want capped at 10", first.Strength, second.Strength)
	}
}

func TestClassifyBreaksKeepsTrendOnSameDirection(t *testing.T) {
	e := NewStructureEngine(DefaultStructureConfig())
	candles := make([]models.Candle, 20)
	for i := range candles {
		candles[i] = flatBar(i, 100)
	}
	// two bullish sequences in a row: second must stay BOS
	swings := []models.Swing{
		swingAt(0, 90, models.SwingLow),
		swingAt(1, 101, models.SwingHigh),
		swingAt(2, 92, models.SwingLow),
		swingAt(3, 103, models.SwingHigh),
		swingAt(4, 95, models.SwingLow),
		swingAt(5, 106, models.SwingHigh),
		swingAt(6, 96, models.SwingLow),
		swingAt(7, 108, models.SwingHigh),
	}
	breaks, trend := e.classifyBreaks(candles, swings)
	if len(breaks) != 2 {
		t.Fatalf("expected 2 breaks, got %+v", breaks)
	}
	for _, b := range breaks {
		if b.Type != models.BreakBOS || b.Direction != models.TrendBullish {
			t.Fatalf("expected bullish BOS, got %+v", b)
		}
	}
	if trend != models.TrendBullish {
		t.Fatalf("trend = %v, want bullish", trend)
	}
}
