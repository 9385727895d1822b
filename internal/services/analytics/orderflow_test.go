package analytics

import (
	"math"
	"testing"

	"FlowLens/internal/domain/models"
)

func upBar(i int, v float64) models.Candle   { return bar(i, 100, 101, 99, 101, v) }
func downBar(i int, v float64) models.Candle { return bar(i, 101, 102, 99, 100, v) }
func doji(i int, v float64) models.Candle    { return bar(i, 100, 101, 99, 100, v) }

func TestFlowDeltaAndCVD(t *testing.T) {
	candles := []models.Candle{upBar(0, 100), downBar(1, 50), doji(2, 80), upBar(3, 10)}
	e := NewFlowEngine(DefaultFlowConfig())
	r := e.Analyze(candles)

	if len(r.Samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(r.Samples))
	}
	want := []float64{60, -30, 0, 6}
	cvd := 0.0
	for i, s := range r.Samples {
		if math.Abs(s.Delta-want[i]) > 1e-9 {
			t.Fatalf("delta[%d] = %v, want %v", i, s.Delta, want[i])
		}
		cvd += s.Delta
		if math.Abs(s.CVD-cvd) > 1e-9 {
			t.Fatalf("cvd[%d] = %v, want running sum %v", i, s.CVD, cvd)
		}
	}
}

func TestFlowMomentumZeroBaseSubstitutesOne(t *testing.T) {
	// flat bars keep CVD at zero through the window start
	candles := []models.Candle{doji(0, 100), doji(1, 100), doji(2, 100)}
	for i := 3; i < 12; i++ {
		candles = append(candles, upBar(i, 100))
	}
	e := NewFlowEngine(DefaultFlowConfig())
	r := e.Analyze(candles)

	// base CVD is 0, so the divisor is 1: momentum = (540 - 0) / 1 * 100
	if math.Abs(r.Momentum-54000) > 1e-6 {
		t.Fatalf("momentum = %v, want 54000", r.Momentum)
	}
	if r.Sentiment != models.SentimentBullish {
		t.Fatalf("sentiment = %v, want bullish", r.Sentiment)
	}
}

func TestFlowSentimentBands(t *testing.T) {
	e := NewFlowEngine(DefaultFlowConfig())

	var down []models.Candle
	for i := 0; i < 15; i++ {
		down = append(down, downBar(i, 100))
	}
	if r := e.Analyze(down); r.Sentiment != models.SentimentBearish {
		t.Fatalf("sentiment = %v, want bearish", r.Sentiment)
	}

	if r := e.Analyze([]models.Candle{doji(0, 100), doji(1, 100)}); r.Sentiment != models.SentimentNeutral {
		t.Fatalf("sentiment = %v, want neutral", r.Sentiment)
	}
}

func TestFlowInstitutionalSpike(t *testing.T) {
	candles := make([]models.Candle, 0, 20)
	for i := 0; i < 19; i++ {
		candles = append(candles, upBar(i, 100))
	}
	candles = append(candles, upBar(19, 500))

	e := NewFlowEngine(DefaultFlowConfig())
	r := e.Analyze(candles)

	if len(r.Activity) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(r.Activity))
	}
	ev := r.Activity[0]
	if ev.Type != models.ActivityAccumulation {
		t.Fatalf("type = %v, want accumulation", ev.Type)
	}
	// avg = (19*100+500)/20 = 120; (500/120-1)*100 = 316.7, capped at 200
	if math.Abs(ev.Intensity-200) > 1e-9 {
		t.Fatalf("intensity = %v, want capped 200", ev.Intensity)
	}
	if ev.Confidence < 0.5 || ev.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", ev.Confidence)
	}
}

func TestFlowNoActivityOnZeroVolume(t *testing.T) {
	candles := []models.Candle{doji(0, 0), doji(1, 0), doji(2, 0)}
	e := NewFlowEngine(DefaultFlowConfig())
	r := e.Analyze(candles)
	if len(r.Activity) != 0 {
		t.Fatalf("zero-volume window must not flag activity: %+v", r.Activity)
	}
	if r.Momentum != 0 {
		t.Fatalf("momentum = %v, want 0", r.Momentum)
	}
}

func TestFlowEmptyWindow(t *testing.T) {
	e := NewFlowEngine(DefaultFlowConfig())
	r := e.Analyze(nil)
	if len(r.Samples) != 0 || r.Sentiment != models.SentimentNeutral {
		t.Fatalf("empty window must yield neutral report: %+v", r)
	}
}
