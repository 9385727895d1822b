package models

import "time"

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// Swing is a local extremum of the candle window.
type Swing struct {
	Time  time.Time
	Price float64
	Kind  SwingKind
}

// BreakType labels a structure break relative to the tracked trend.
type BreakType string

const (
	BreakBOS   BreakType = "bos"   // break of structure, continuation
	BreakCHoCH BreakType = "choch" // change of character, reversal
)

// Trend is the running direction tracked across structure breaks.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// StructureBreak records one confirmed break between two swings.
type StructureBreak struct {
	Time      time.Time
	Type      BreakType
	Direction Trend // bullish or bearish
	Price     float64
	Strength  float64 // percent excursion between the swings, capped
}

// StructureReport is the market-structure analysis of a candle window.
// Breaks hold the most recent events, oldest first.
type StructureReport struct {
	Symbol string
	Breaks []StructureBreak
	Trend  Trend
}
