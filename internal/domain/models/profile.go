package models

// NodeClass labels a price bucket by its share of total traded volume.
type NodeClass string

const (
	NodeNormal     NodeClass = "normal"
	NodeHighVolume NodeClass = "hvn"
	NodeLowVolume  NodeClass = "lvn"
)

// MarketBias relates the current price to the value area.
type MarketBias string

const (
	BiasBullish    MarketBias = "bullish"
	BiasBearish    MarketBias = "bearish"
	BiasRangeBound MarketBias = "range_bound"
)

// VolumeNode is one price bucket of a volume profile.
type VolumeNode struct {
	Price      float64
	Volume     float64
	Percentage float64 // share of total volume, 0..100
	Class      NodeClass
}

// PriceLevel is a named support/resistance level derived from the profile.
type PriceLevel struct {
	Price float64
	Label string // "poc", "vah", "val", "hvn"
}

// VolumeProfile is the result of bucketing traded volume by price.
// Nodes are sorted descending by price. An empty window or zero traded
// volume yields a profile with no nodes and zero totals.
type VolumeProfile struct {
	Symbol        string
	Nodes         []VolumeNode
	POC           VolumeNode
	ValueAreaHigh float64
	ValueAreaLow  float64
	TotalVolume   float64
	Bias          MarketBias
	Levels        []PriceLevel
}
