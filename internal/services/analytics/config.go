package analytics

import "FlowLens/internal/domain/models"

// Engine tunables. Defaults reproduce the reference behavior; tests and
// config may override any field.

type ProfileConfig struct {
	Buckets          int     // price buckets, lightweight variant
	DetailedBuckets  int     // price buckets, detailed variant
	HVNPercent       float64 // above this share a node is high-volume
	LVNPercent       float64 // below this share a node is low-volume
	ValueAreaPercent float64 // share of total volume covered by the value area
	WeightOpen       float64
	WeightHigh       float64
	WeightLow        float64
	WeightClose      float64
	TopHVNLevels     int // high-volume nodes listed as extra levels
}

func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		Buckets:          50,
		DetailedBuckets:  100,
		HVNPercent:       2.5,
		LVNPercent:       0.8,
		ValueAreaPercent: 70,
		WeightOpen:       0.25,
		WeightHigh:       0.15,
		WeightLow:        0.15,
		WeightClose:      0.45,
		TopHVNLevels:     3,
	}
}

type FlowConfig struct {
	DeltaFraction  float64 // share of bar volume attributed to the close direction
	MomentumWindow int     // trailing samples for CVD momentum
	SentimentBand  float64 // momentum beyond +/- band flips sentiment
	VolumeWindow   int     // trailing bars for the average-volume baseline
	RecentBars     int     // bars checked for institutional spikes
	SpikeMultiple  float64 // volume above multiple*average flags a spike
	IntensityCap   float64
}

func DefaultFlowConfig() FlowConfig {
	return FlowConfig{
		DeltaFraction:  0.6,
		MomentumWindow: 10,
		SentimentBand:  5,
		VolumeWindow:   20,
		RecentBars:     10,
		SpikeMultiple:  2,
		IntensityCap:   200,
	}
}

type StructureConfig struct {
	SwingWindow     int     // bars each side of a swing candidate
	MinBars         int     // below this the report is neutral
	KeepBreaks      int     // most recent breaks retained
	StrengthCap     float64 // percent cap on break strength
	RangePercentile float64 // index proxy for the recent range extreme
	PriorSwings     int     // prior lows/highs examined for the rising/falling test
}

func DefaultStructureConfig() StructureConfig {
	return StructureConfig{
		SwingWindow:     5,
		MinBars:         20,
		KeepBreaks:      5,
		StrengthCap:     10,
		RangePercentile: 0.8,
		PriorSwings:     3,
	}
}

type RiskConfig struct {
	ATRPeriod               int
	SRWindow                int // bars each side for support/resistance extrema
	SRKeep                  int // most recent levels kept per side
	DefaultATRMultiplier    float64
	DefaultFixedStopPercent float64
	RewardRisk              float64 // target distance as a multiple of stop distance
	SRFallbackATRMultiple   float64 // stop fallback when no level qualifies

	KellyWinRate     float64
	KellyCapFraction float64 // recommended size cap as a fraction of equity
	MaxSafeFraction  float64

	LiquidityLowVolume float64 // 24h volume below this is thin
	LiquidityMidVolume float64
	LiquidityHighRisk  float64
	LiquidityMidRisk   float64
	LiquidityLowRisk   float64
	LeverageKnee       float64 // leverage above this accrues risk
	LeverageSlope      float64

	WarnRiskPercent float64
	WarnLeverage    float64
	WarnTotalRisk   float64
	WarnLiquidity   float64
	WarnVolatility  float64 // annualized, percent

	ReferenceBook []models.CorrelatedPosition
}

func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		ATRPeriod:               14,
		SRWindow:                2,
		SRKeep:                  3,
		DefaultATRMultiplier:    2,
		DefaultFixedStopPercent: 3,
		RewardRisk:              2,
		SRFallbackATRMultiple:   2,
		KellyWinRate:            0.6,
		KellyCapFraction:        0.03,
		MaxSafeFraction:         0.05,
		LiquidityLowVolume:      1_000_000,
		LiquidityMidVolume:      10_000_000,
		LiquidityHighRisk:       80,
		LiquidityMidRisk:        40,
		LiquidityLowRisk:        15,
		LeverageKnee:            10,
		LeverageSlope:           8,
		WarnRiskPercent:         5,
		WarnLeverage:            20,
		WarnTotalRisk:           15,
		WarnLiquidity:           60,
		WarnVolatility:          100,
		ReferenceBook: []models.CorrelatedPosition{
			{Symbol: "BTCUSDT", RiskPercent: 2.0, Correlation: 0.85},
			{Symbol: "ETHUSDT", RiskPercent: 1.5, Correlation: 0.75},
		},
	}
}
