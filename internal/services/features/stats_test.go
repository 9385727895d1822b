package features

import (
	"math"
	"testing"
	"time"

	"FlowLens/internal/domain/models"
)

func mkCandles(closes ...float64) []models.Candle {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Time:   t0.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 100,
		}
	}
	return out
}

func TestComputeLogReturns(t *testing.T) {
	candles := mkCandles(100, 110, 99)
	rets := ComputeLogReturns(candles)
	if len(rets) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(rets))
	}
	if math.Abs(rets[0]-math.Log(1.1)) > 1e-12 {
		t.Fatalf("unexpected first return: %v", rets[0])
	}
	if ComputeLogReturns(candles[:1]) != nil {
		t.Fatalf("single candle must yield nil returns")
	}
}

func TestStdDevAndMean(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(xs); math.Abs(got-5) > 1e-12 {
		t.Fatalf("mean = %v, want 5", got)
	}
	// sample stddev of the set above is ~2.138
	if got := StdDev(xs); math.Abs(got-2.1380899) > 1e-6 {
		t.Fatalf("stddev = %v", got)
	}
	if StdDev([]float64{1}) != 0 {
		t.Fatalf("stddev of single value must be 0")
	}
}

func TestTrueRangeUsesPrevClose(t *testing.T) {
	c := models.Candle{High: 105, Low: 100, Close: 104}
	// gap down: prev close far above the bar range
	if got := TrueRange(c, 110); math.Abs(got-10) > 1e-12 {
		t.Fatalf("true range = %v, want 10", got)
	}
	// no gap: plain high-low
	if got := TrueRange(c, 103); math.Abs(got-5) > 1e-12 {
		t.Fatalf("true range = %v, want 5", got)
	}
}

func TestATRInsufficientData(t *testing.T) {
	if got := ATR(mkCandles(100, 101), 14); got != 0 {
		t.Fatalf("ATR on short window = %v, want 0", got)
	}
}

func TestATRConstantRange(t *testing.T) {
	// flat closes, each bar spans 2.0, so ATR equals 2
	candles := mkCandles(100, 100, 100, 100, 100)
	got := ATR(candles, 3)
	if math.Abs(got-2) > 1e-12 {
		t.Fatalf("ATR = %v, want 2", got)
	}
}

func TestAlignFromTo(t *testing.T) {
	from := time.Date(2025, 1, 1, 10, 3, 45, 0, time.UTC)
	to := time.Date(2025, 1, 1, 11, 8, 5, 0, time.UTC)
	f, tt := AlignFromTo(from, to, "5m")
	if f.Minute() != 0 || tt.Minute() != 5 {
		t.Fatalf("unexpected alignment: %v %v", f, tt)
	}
}
