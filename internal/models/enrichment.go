package models

import "github.com/shopspring/decimal"

// Crime level categories reported by enrichment providers.
const (
	CrimeLevelLow     = "low"
	CrimeLevelAverage = "average"
	CrimeLevelHigh    = "high"
)

// Walkability categories reported by enrichment providers.
const (
	WalkabilityHigh    = "high"
	WalkabilityAverage = "average"
	WalkabilityLow     = "low"
)

// Market trend categories reported by enrichment providers.
const (
	MarketTrendHighGrowth   = "high_growth"
	MarketTrendStableGrowth = "stable_growth"
	MarketTrendFlat         = "flat"
	MarketTrendDeclining    = "declining"
)

// Enrichment carries the neighborhood and return signals used by the
// investment scoring engine. Every field may be absent; a nil field
// contributes zero points for its factor and is reported back as missing
// rather than raising an error.
type Enrichment struct {
	ROIPercent   *decimal.Decimal `json:"roiPercent,omitempty"`
	CrimeLevel   *string          `json:"crimeLevel,omitempty"`
	Walkability  *string          `json:"walkability,omitempty"`
	SchoolRating *float64         `json:"schoolRating,omitempty"`
	YearBuilt    *int             `json:"yearBuilt,omitempty"`
	MarketTrend  *string          `json:"marketTrend,omitempty"`
	// Informational metrics surfaced beside the score. Never inputs to the
	// 100-point allocation.
	CapRate        *decimal.Decimal `json:"capRate,omitempty"`
	CashOnCashRate *decimal.Decimal `json:"cashOnCashRate,omitempty"`
}
