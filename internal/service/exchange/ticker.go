package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FlowLens/internal/domain/models"
	drepo "FlowLens/internal/domain/repository"
	xhttp "FlowLens/pkg/http"
)

// TickerClient fetches 24h ticker snapshots over the exchange REST API.
type TickerClient struct {
	baseURL string
	client  *xhttp.Client
}

func NewTickerClient(baseURL string, timeout time.Duration) *TickerClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TickerClient{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type ticker24h struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	QuoteVolume string `json:"quoteVolume"`
}

// GetTicker returns the latest price and 24h quote volume for a symbol.
func (t *TickerClient) GetTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	var raw ticker24h
	err := t.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         t.baseURL + "/api/v3/ticker/24hr",
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &raw)
	if err != nil {
		return models.Ticker{}, fmt.Errorf("get ticker %s: %w", symbol, err)
	}

	last, err := strconv.ParseFloat(raw.LastPrice, 64)
	if err != nil {
		return models.Ticker{}, fmt.Errorf("parse lastPrice: %w", err)
	}
	vol, err := strconv.ParseFloat(raw.QuoteVolume, 64)
	if err != nil {
		return models.Ticker{}, fmt.Errorf("parse quoteVolume: %w", err)
	}
	return models.Ticker{Symbol: symbol, LastPrice: last, Volume24h: vol}, nil
}

var _ drepo.TickerSource = (*TickerClient)(nil)
