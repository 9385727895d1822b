package service

import "FlowLens/internal/domain/models"

// The analytic engines are pure functions of their inputs: no I/O, no
// shared state, safe for concurrent use. Degenerate input (empty window,
// zero volume, zero range) yields a well-formed empty/neutral result,
// never an error.

// VolumeProfiler buckets traded volume by price level. The detailed
// variant uses more buckets and weighted OHLC attribution.
type VolumeProfiler interface {
	Profile(candles []models.Candle, detailed bool) models.VolumeProfile
}

// OrderFlowAnalyzer estimates per-bar delta, CVD and institutional activity.
type OrderFlowAnalyzer interface {
	Analyze(candles []models.Candle) models.OrderFlowReport
}

// StructureAnalyzer detects swings and labels structure breaks.
type StructureAnalyzer interface {
	Analyze(candles []models.Candle) models.StructureReport
}

// RiskAssessor computes position sizing, portfolio aggregation and warnings.
type RiskAssessor interface {
	Assess(params models.RiskParameters, candles []models.Candle, ticker models.Ticker) models.RiskAssessment
}
