// Package portfolio reduces a collection of investments into the dashboard
// summary statistics. Pure reduction: no I/O, deterministic, and
// order-independent (all sums are commutative).
package portfolio

import (
	"github.com/mgrist/texlien/internal/models"
	"github.com/shopspring/decimal"
)

// Holding pairs an investment with its redemption outcome, when one exists.
// Realized profit comes from the redemption for redeemed investments and from
// RealizedProfit for clear-title/sold dispositions.
type Holding struct {
	Investment *models.Investment
	Redemption *models.Redemption
	// RealizedProfit is the profit booked on a clear-title foreclosure or a
	// subsequent sale, supplied by the caller from its own records.
	RealizedProfit *decimal.Decimal
}

// Performer identifies the best or worst realized holding in a summary.
type Performer struct {
	ROIPercent   decimal.Decimal `json:"roiPercent"`
	Profit       decimal.Decimal `json:"profit"`
	InvestmentID int64           `json:"investmentId"`
	PropertyID   int64           `json:"propertyId"`
}

// Summary holds portfolio-wide statistics.
type Summary struct {
	TotalInvested decimal.Decimal `json:"totalInvested"`
	// TotalProfit sums realized profit over redeemed, clear-title, and sold
	// holdings. Active investments contribute zero (unrealized).
	TotalProfit decimal.Decimal `json:"totalProfit"`
	// OverallROIPercent is TotalProfit / TotalInvested * 100, or zero when
	// nothing is invested.
	OverallROIPercent decimal.Decimal `json:"overallRoiPercent"`
	BestPerformer     *Performer      `json:"bestPerformer,omitempty"`
	WorstPerformer    *Performer      `json:"worstPerformer,omitempty"`
	ActiveCount       int             `json:"activeCount"`
	RedeemedCount     int             `json:"redeemedCount"`
	ClearTitleCount   int             `json:"clearTitleCount"`
	SoldCount         int             `json:"soldCount"`
}

var oneHundred = decimal.NewFromInt(100)

// Summarize rolls up the holdings into summary statistics. A nil or empty
// input yields an all-zero summary; overall ROI never divides by zero.
func Summarize(holdings []Holding) Summary {
	s := Summary{
		TotalInvested:     decimal.Zero,
		TotalProfit:       decimal.Zero,
		OverallROIPercent: decimal.Zero,
	}

	for _, h := range holdings {
		inv := h.Investment
		if inv == nil {
			continue
		}
		s.TotalInvested = s.TotalInvested.Add(inv.TotalInvestment)

		switch inv.Status {
		case models.InvestmentStatusActive:
			s.ActiveCount++
			continue
		case models.InvestmentStatusRedeemed:
			s.RedeemedCount++
		case models.InvestmentStatusClearTitle:
			s.ClearTitleCount++
		case models.InvestmentStatusSold:
			s.SoldCount++
		}

		profit := realizedProfit(h)
		s.TotalProfit = s.TotalProfit.Add(profit)
		s.track(inv, profit)
	}

	if s.TotalInvested.IsPositive() {
		s.OverallROIPercent = s.TotalProfit.Div(s.TotalInvested).Mul(oneHundred).Round(2)
	}
	return s
}

// realizedProfit extracts the booked profit for a non-active holding.
func realizedProfit(h Holding) decimal.Decimal {
	if h.Redemption != nil {
		return h.Redemption.NetProfit
	}
	if h.RealizedProfit != nil {
		return *h.RealizedProfit
	}
	return decimal.Zero
}

// track updates the best/worst performer slots with a realized holding.
func (s *Summary) track(inv *models.Investment, profit decimal.Decimal) {
	if !inv.TotalInvestment.IsPositive() {
		return
	}
	roi := profit.Div(inv.TotalInvestment).Mul(oneHundred).Round(2)
	p := &Performer{
		InvestmentID: inv.ID,
		PropertyID:   inv.PropertyID,
		ROIPercent:   roi,
		Profit:       profit,
	}
	if s.BestPerformer == nil || roi.GreaterThan(s.BestPerformer.ROIPercent) {
		s.BestPerformer = p
	}
	if s.WorstPerformer == nil || roi.LessThan(s.WorstPerformer.ROIPercent) {
		s.WorstPerformer = p
	}
}
