package models

import "time"

// Candle represents a single OHLCV bar. Series are ordered ascending by time.
type Candle struct {
	Time   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Ticker is a point-in-time market snapshot used by risk assessment.
type Ticker struct {
	Symbol    string
	LastPrice float64
	Volume24h float64
}

// TypicalPrice returns the average of high, low and close.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// Bullish reports whether the bar closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }
