package models

import "time"

// FlowSentiment classifies CVD momentum.
type FlowSentiment string

const (
	SentimentBullish FlowSentiment = "bullish"
	SentimentBearish FlowSentiment = "bearish"
	SentimentNeutral FlowSentiment = "neutral"
)

// ActivityType classifies an anomalous-volume bar.
type ActivityType string

const (
	ActivityAccumulation ActivityType = "accumulation"
	ActivityDistribution ActivityType = "distribution"
	ActivityAbsorption   ActivityType = "absorption"
	ActivityRejection    ActivityType = "rejection"
)

// FlowSample is one bar's estimated order-flow contribution.
type FlowSample struct {
	Time  time.Time
	Delta float64 // signed estimated buy-minus-sell volume
	CVD   float64 // running sum of delta through this bar
	Price float64 // bar close
}

// InstitutionalActivity marks a bar whose volume spiked above the
// trailing average.
type InstitutionalActivity struct {
	Time       time.Time
	Price      float64
	Volume     float64
	Type       ActivityType
	Intensity  float64 // 0..200
	Confidence float64 // 0..1
}

// OrderFlowReport is the full order-flow analysis of a candle window.
type OrderFlowReport struct {
	Symbol    string
	Samples   []FlowSample
	Momentum  float64 // percent change of CVD over the trailing window
	Sentiment FlowSentiment
	Activity  []InstitutionalActivity
}
