package analytics

import (
	"sort"

	"FlowLens/internal/domain/models"
	domsvc "FlowLens/internal/domain/service"
)

// ProfileEngine buckets traded volume by price level and derives the
// point of control, value area and node classifications.
type ProfileEngine struct {
	cfg ProfileConfig
}

func NewProfileEngine(cfg ProfileConfig) *ProfileEngine { return &ProfileEngine{cfg: cfg} }

// Profile computes the volume profile of the window. The detailed variant
// uses more buckets and splits each bar's volume across its OHLC prices;
// the lightweight variant attributes everything to a representative price.
func (e *ProfileEngine) Profile(candles []models.Candle, detailed bool) models.VolumeProfile {
	out := models.VolumeProfile{Bias: models.BiasRangeBound}
	if len(candles) == 0 {
		return out
	}
	out.Symbol = candles[0].Symbol

	minPrice := candles[0].Low
	maxPrice := candles[0].High
	for _, c := range candles {
		if c.Low < minPrice {
			minPrice = c.Low
		}
		if c.High > maxPrice {
			maxPrice = c.High
		}
	}

	buckets := e.cfg.Buckets
	if detailed {
		buckets = e.cfg.DetailedBuckets
	}
	if buckets <= 0 {
		buckets = 1
	}
	// collapse a flat window into a single bucket
	if maxPrice <= minPrice {
		buckets = 1
	}
	bucketSize := (maxPrice - minPrice) / float64(buckets)

	volumes := make([]float64, buckets)
	idx := func(price float64) int {
		if bucketSize <= 0 {
			return 0
		}
		i := int((price - minPrice) / bucketSize)
		if i < 0 {
			i = 0
		}
		if i >= buckets {
			i = buckets - 1
		}
		return i
	}

	total := 0.0
	for _, c := range candles {
		if c.Volume <= 0 {
			continue
		}
		if detailed {
			volumes[idx(c.Open)] += c.Volume * e.cfg.WeightOpen
			volumes[idx(c.High)] += c.Volume * e.cfg.WeightHigh
			volumes[idx(c.Low)] += c.Volume * e.cfg.WeightLow
			volumes[idx(c.Close)] += c.Volume * e.cfg.WeightClose
		} else {
			volumes[idx((c.High+c.Low+c.Close)/3)] += c.Volume
		}
		total += c.Volume
	}
	if total <= 0 {
		return out
	}
	out.TotalVolume = total

	nodes := make([]models.VolumeNode, 0, buckets)
	for i, v := range volumes {
		if v <= 0 {
			continue
		}
		pct := v / total * 100
		nodes = append(nodes, models.VolumeNode{
			Price:      minPrice + (float64(i)+0.5)*bucketSize,
			Volume:     v,
			Percentage: pct,
			Class:      e.classify(pct),
		})
	}

	// POC: max volume, first occurrence wins ties
	poc := nodes[0]
	for _, n := range nodes[1:] {
		if n.Volume > poc.Volume {
			poc = n
		}
	}
	out.POC = poc

	// value area: greedy descending-volume accumulation to the target share
	byVolume := make([]models.VolumeNode, len(nodes))
	copy(byVolume, nodes)
	sort.SliceStable(byVolume, func(i, j int) bool { return byVolume[i].Volume > byVolume[j].Volume })
	target := total * e.cfg.ValueAreaPercent / 100
	accum := 0.0
	vah, val := byVolume[0].Price, byVolume[0].Price
	for _, n := range byVolume {
		accum += n.Volume
		if n.Price > vah {
			vah = n.Price
		}
		if n.Price < val {
			val = n.Price
		}
		if accum >= target {
			break
		}
	}
	out.ValueAreaHigh = vah
	out.ValueAreaLow = val

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Price > nodes[j].Price })
	out.Nodes = nodes

	lastClose := candles[len(candles)-1].Close
	switch {
	case lastClose > vah:
		out.Bias = models.BiasBullish
	case lastClose < val:
		out.Bias = models.BiasBearish
	default:
		out.Bias = models.BiasRangeBound
	}

	out.Levels = e.levels(out, byVolume)
	return out
}

func (e *ProfileEngine) classify(pct float64) models.NodeClass {
	switch {
	case pct > e.cfg.HVNPercent:
		return models.NodeHighVolume
	case pct < e.cfg.LVNPercent:
		return models.NodeLowVolume
	default:
		return models.NodeNormal
	}
}

// levels anchors the support/resistance list at the POC and value-area
// bounds, then appends the strongest remaining high-volume nodes.
func (e *ProfileEngine) levels(p models.VolumeProfile, byVolume []models.VolumeNode) []models.PriceLevel {
	levels := []models.PriceLevel{
		{Price: p.POC.Price, Label: "poc"},
		{Price: p.ValueAreaHigh, Label: "vah"},
		{Price: p.ValueAreaLow, Label: "val"},
	}
	added := 0
	for _, n := range byVolume {
		if added >= e.cfg.TopHVNLevels {
			break
		}
		if n.Class != models.NodeHighVolume || n.Price == p.POC.Price {
			continue
		}
		levels = append(levels, models.PriceLevel{Price: n.Price, Label: "hvn"})
		added++
	}
	return levels
}

var _ domsvc.VolumeProfiler = (*ProfileEngine)(nil)
