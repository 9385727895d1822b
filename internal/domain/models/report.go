package models

import "time"

// MarketReport is a consolidated view of the market analytics for one
// symbol/window. Engines that failed are listed in Errors by name; the
// remaining sections are still populated.
// Note: no transport (json/http) concerns here.
type MarketReport struct {
	Symbol    string
	Timeframe string
	Timestamp time.Time
	Profile   *VolumeProfile
	Flow      *OrderFlowReport
	Structure *StructureReport
	Errors    map[string]string
}
