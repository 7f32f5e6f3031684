// Package scoring produces a single comparable 0-100 investment score from
// heterogeneous enrichment signals using a fixed, auditable point allocation.
// Missing inputs never error: an absent factor contributes zero points and is
// reported back in the result's MissingFactors set.
package scoring

import (
	"github.com/mgrist/texlien/internal/models"
	"github.com/shopspring/decimal"
)

// Factor names, as reported in score breakdowns and missing-factor sets.
const (
	FactorROI         = "roi"
	FactorLocation    = "location"
	FactorSchools     = "schools"
	FactorCondition   = "condition"
	FactorMarketTrend = "market_trend"
)

// Maximum points per factor. The weights sum to 100.
const (
	MaxROIPoints         = 30
	MaxLocationPoints    = 20
	MaxSchoolPoints      = 20
	MaxConditionPoints   = 20
	MaxMarketTrendPoints = 10
)

// ROI bracket edges, inclusive on the upper bound of the lower bracket:
// exactly 100% scores 20 points, not 30.
var (
	roiTopBracket    = decimal.NewFromInt(100)
	roiMiddleBracket = decimal.NewFromInt(50)
	roiLowerBracket  = decimal.NewFromInt(25)
)

// Result is the outcome of scoring one property's enrichment signals.
type Result struct {
	// Breakdown maps each factor to the points it was awarded, for
	// explainability in the UI. Factors in MissingFactors appear with 0.
	Breakdown map[string]int `json:"breakdown"`
	// MissingFactors lists the factors whose inputs were absent and therefore
	// contributed nothing. Absence is unknown/low confidence, not an error.
	MissingFactors []string `json:"missingFactors"`
	// Informational metrics copied through untouched; never score inputs.
	CapRate        *decimal.Decimal `json:"capRate,omitempty"`
	CashOnCashRate *decimal.Decimal `json:"cashOnCashRate,omitempty"`
	// Total is the final score in [0, 100].
	Total int `json:"total"`
}

// Score computes the investment score for the given enrichment signals.
// It never errors; partial input yields a partial score.
func Score(e *models.Enrichment) Result {
	res := Result{
		Breakdown:      make(map[string]int, 5),
		MissingFactors: []string{},
	}
	if e == nil {
		e = &models.Enrichment{}
	}

	res.award(FactorROI, e.ROIPercent != nil, func() int { return roiPoints(*e.ROIPercent) })
	res.award(FactorLocation, e.CrimeLevel != nil || e.Walkability != nil, func() int {
		return locationPoints(e.CrimeLevel, e.Walkability)
	})
	res.award(FactorSchools, e.SchoolRating != nil, func() int { return schoolPoints(*e.SchoolRating) })
	res.award(FactorCondition, e.YearBuilt != nil, func() int { return conditionPoints(*e.YearBuilt) })
	res.award(FactorMarketTrend, e.MarketTrend != nil, func() int { return trendPoints(*e.MarketTrend) })

	res.CapRate = e.CapRate
	res.CashOnCashRate = e.CashOnCashRate
	return res
}

func (r *Result) award(factor string, present bool, points func() int) {
	if !present {
		r.Breakdown[factor] = 0
		r.MissingFactors = append(r.MissingFactors, factor)
		return
	}
	p := points()
	r.Breakdown[factor] = p
	r.Total += p
}

// roiPoints awards up to 30 points: >100% earns 30; (50,100] earns 20;
// (25,50] earns 10; everything at or below 25% earns 0.
func roiPoints(roi decimal.Decimal) int {
	switch {
	case roi.GreaterThan(roiTopBracket):
		return MaxROIPoints
	case roi.GreaterThan(roiMiddleBracket):
		return 20
	case roi.GreaterThan(roiLowerBracket):
		return 10
	}
	return 0
}

// locationPoints awards up to 20 points from the crime and walkability
// signals: low crime and high walkability together earn 20, either alone
// earns 10, average conditions earn 5, high crime earns 0.
func locationPoints(crime, walkability *string) int {
	if crime != nil && *crime == models.CrimeLevelHigh {
		return 0
	}
	lowCrime := crime != nil && *crime == models.CrimeLevelLow
	walkable := walkability != nil && *walkability == models.WalkabilityHigh
	switch {
	case lowCrime && walkable:
		return MaxLocationPoints
	case lowCrime || walkable:
		return 10
	}
	return 5
}

// schoolPoints awards up to 20 points by district rating: >8 earns 20,
// (6,8] earns 10, (4,6] earns 5, at or below 4 earns 0.
func schoolPoints(rating float64) int {
	switch {
	case rating > 8:
		return MaxSchoolPoints
	case rating > 6:
		return 10
	case rating > 4:
		return 5
	}
	return 0
}

// conditionPoints awards up to 20 points by construction year: after 2000
// earns 20, (1980,2000] earns 10, (1960,1980] earns 5, 1960 and earlier
// earns 0.
func conditionPoints(yearBuilt int) int {
	switch {
	case yearBuilt > 2000:
		return MaxConditionPoints
	case yearBuilt > 1980:
		return 10
	case yearBuilt > 1960:
		return 5
	}
	return 0
}

// trendPoints awards up to 10 points by market trend category.
func trendPoints(trend string) int {
	switch trend {
	case models.MarketTrendHighGrowth:
		return MaxMarketTrendPoints
	case models.MarketTrendStableGrowth:
		return 5
	case models.MarketTrendFlat:
		return 2
	}
	return 0
}
