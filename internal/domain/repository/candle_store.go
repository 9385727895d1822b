package repository

import (
	"context"
	"time"

	"FlowLens/internal/domain/models"
)

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF1m Timeframe = "1m"
	TF5m Timeframe = "5m"
	TF1h Timeframe = "1h"
)

// CandleStore provides read-only access to stored candles for analytics.
type CandleStore interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.Candle, error)
	GetLatestNCandles(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Candle, error)
}

// TickerSource supplies the latest market snapshot for a symbol.
type TickerSource interface {
	GetTicker(ctx context.Context, symbol string) (models.Ticker, error)
}
