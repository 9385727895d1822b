package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.

type ProfileRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	N        int    `query:"n" json:"n" default:"200" validate:"gte=1,lte=5000"`
	TF       string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 1h"`
	Detailed bool   `query:"detailed" json:"detailed"`
}

type FlowRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 1h"`
}

type StructureRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=20,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 1h"`
}

type ReportRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 1h"`
}

type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 1h"`
	Limit  int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}

type RiskRequest struct {
	Symbol           string  `json:"symbol" validate:"required"`
	Equity           float64 `json:"equity" validate:"gt=0"`
	RiskPercent      float64 `json:"riskPercent" default:"1" validate:"gt=0"`
	Leverage         float64 `json:"leverage" default:"1" validate:"gte=1"`
	Side             string  `json:"side" default:"long" validate:"oneof=long short"`
	StopType         string  `json:"stopType" default:"atr" validate:"oneof=atr fixed support_resistance"`
	ATRMultiplier    float64 `json:"atrMultiplier" default:"2" validate:"gt=0"`
	FixedStopPercent float64 `json:"fixedStopPercent" default:"3" validate:"gt=0"`
	N                int     `json:"n" default:"200" validate:"gte=1,lte=5000"`
	TF               string  `json:"tf" default:"1m" validate:"oneof=1m 5m 1h"`
}

// Params converts the request into engine parameters.
func (r RiskRequest) Params() RiskParameters {
	return RiskParameters{
		Symbol:           r.Symbol,
		Equity:           r.Equity,
		RiskPercent:      r.RiskPercent,
		Leverage:         r.Leverage,
		Side:             Side(r.Side),
		StopType:         StopType(r.StopType),
		ATRMultiplier:    r.ATRMultiplier,
		FixedStopPercent: r.FixedStopPercent,
		Timeframe:        r.TF,
	}
}
