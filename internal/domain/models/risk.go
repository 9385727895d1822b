package models

// Side is the direction of a prospective position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// StopType selects the stop-placement policy.
type StopType string

const (
	StopATR   StopType = "atr"
	StopFixed StopType = "fixed"
	StopSR    StopType = "support_resistance"
)

// RiskParameters is the caller-supplied input to risk assessment.
// Out-of-range values do not fail the call; they surface as warnings.
type RiskParameters struct {
	Symbol           string
	Equity           float64
	RiskPercent      float64
	Leverage         float64
	Side             Side
	StopType         StopType
	ATRMultiplier    float64 // used when StopType == StopATR
	FixedStopPercent float64 // used when StopType == StopFixed
	Timeframe        string  // bar width of the supplied window, for annualizing
}

// PositionCalculation holds the derived entry/stop/target and sizing.
type PositionCalculation struct {
	Entry          float64
	Stop           float64
	Target         float64
	StopDistance   float64
	PositionSize   float64 // unleveraged, in units of the asset
	LeveragedSize  float64
	MarginRequired float64
	MaxLoss        float64
	MaxProfit      float64
	RiskReward     float64
	ROI            float64 // percent, max profit over margin
}

// CorrelatedPosition is one entry of the reference book used for
// portfolio aggregation.
type CorrelatedPosition struct {
	Symbol      string
	RiskPercent float64
	Correlation float64 // to the target position, -1..1
}

// PortfolioRisk aggregates the target position with the reference book.
type PortfolioRisk struct {
	Positions            []CorrelatedPosition
	TotalRisk            float64 // plain sum of risk percents
	CorrelatedRisk       float64 // with pairwise correlation cross terms
	DiversificationRatio float64
}

// MarketRisk groups the per-market sub-scores.
type MarketRisk struct {
	ATR                  float64
	AnnualizedVolatility float64 // percent
	LiquidityRisk        float64 // 0..100
	LeverageRisk         float64 // 0..100
}

// KellySizing is the Kelly-criterion recommendation.
type KellySizing struct {
	WinRate         float64
	AvgWin          float64
	AvgLoss         float64
	KellyPercent    float64
	RecommendedSize float64 // capital, clamped to the safety cap
	MaxSafeSize     float64
}

// WarningLevel grades a risk warning.
type WarningLevel string

const (
	WarnMedium   WarningLevel = "medium"
	WarnHigh     WarningLevel = "high"
	WarnCritical WarningLevel = "critical"
)

// RiskWarning is an advisory produced by risk assessment.
type RiskWarning struct {
	Level          WarningLevel
	Message        string
	Recommendation string
}

// RiskAssessment is the complete output of the risk engine.
type RiskAssessment struct {
	Symbol      string
	Position    PositionCalculation
	Portfolio   PortfolioRisk
	Market      MarketRisk
	Kelly       KellySizing
	Supports    []float64
	Resistances []float64
	Warnings    []RiskWarning
}
