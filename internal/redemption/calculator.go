// Package redemption implements the Texas tax-deed redemption penalty
// calculation. Given an investment and a redemption date it determines the
// penalty tier, the amounts owed by the redeemer, and the annualized return.
// All functions are pure; callers persist the resulting value.
package redemption

import (
	"errors"
	"fmt"
	"time"

	"github.com/mgrist/texlien/internal/models"
	"github.com/shopspring/decimal"
)

// Statutory redemption constants (Texas Tax Code §34.21). Declared once here;
// never re-derive these at call sites.
const (
	// StandardPeriodDays is the redemption period for standard-class property.
	StandardPeriodDays = 180
	// ExtendedPeriodDays is the redemption period for homestead, agricultural,
	// and mineral-rights property.
	ExtendedPeriodDays = 730
	// FirstYearBoundaryDays is the last day of the 25% penalty tier.
	FirstYearBoundaryDays = 365
	// DaysPerYear is the divisor used when annualizing returns.
	DaysPerYear = 365
)

// Penalty tiers as whole percentages.
var (
	FirstYearPenaltyPct  = decimal.NewFromInt(25)
	SecondYearPenaltyPct = decimal.NewFromInt(50)

	oneHundred = decimal.NewFromInt(100)
)

// Calculation errors.
var (
	// ErrInvalidDate is returned when the redemption date precedes the
	// purchase date. An input-contract violation, never silently clamped.
	ErrInvalidDate = errors.New("redemption date before purchase date")

	// ErrPastDeadline is returned when the redemption date falls after the
	// statutory period. Not a system failure: the caller routes the
	// investment to the clear-title workflow instead.
	ErrPastDeadline = errors.New("redemption period has expired")
)

// PeriodDays maps a redemption period in months (6 or 24) to its statutory
// length in days.
func PeriodDays(periodMonths int) int {
	if periodMonths == 24 {
		return ExtendedPeriodDays
	}
	return StandardPeriodDays
}

// Calculate computes the redemption outcome for an investment redeemed on
// redemptionDate. countyFee is an optional processing fee charged on the
// redemption itself; pass decimal.Zero when none applies.
//
// Tier selection: days held <= 365 pays 25%; days 366 through the period end
// pay 50% (only reachable for extended-class investments, since the standard
// period of 180 days never exceeds the first-year boundary); anything past
// the period returns ErrPastDeadline.
func Calculate(inv *models.Investment, redemptionDate time.Time, countyFee decimal.Decimal) (*models.Redemption, error) {
	daysHeld := daysBetween(inv.PurchaseDate, redemptionDate)
	if daysHeld < 0 {
		return nil, fmt.Errorf("%w: purchase %s, redemption %s", ErrInvalidDate,
			inv.PurchaseDate.Format("2006-01-02"), redemptionDate.Format("2006-01-02"))
	}

	periodDays := PeriodDays(inv.RedemptionPeriodMonths)

	var pct decimal.Decimal
	switch {
	case daysHeld <= FirstYearBoundaryDays:
		pct = FirstYearPenaltyPct
	case daysHeld <= periodDays:
		pct = SecondYearPenaltyPct
	default:
		return nil, fmt.Errorf("%w: held %d days, period %d days", ErrPastDeadline, daysHeld, periodDays)
	}

	// Exact decimal arithmetic throughout; round half-up to the cent at the
	// final step only.
	penalty := inv.TotalInvestment.Mul(pct).Div(oneHundred).Round(2)

	out := &models.Redemption{
		InvestmentID:        inv.ID,
		RedemptionDate:      redemptionDate,
		PenaltyPercentage:   pct,
		PenaltyAmount:       penalty,
		RedemptionAmount:    inv.TotalInvestment.Add(penalty),
		CountyProcessingFee: countyFee,
		NetProfit:           penalty.Sub(countyFee),
		DaysHeld:            daysHeld,
	}

	if daysHeld == 0 {
		// Same-day redemption: the annualized return is unbounded. Flag it
		// instead of dividing by zero; callers must special-case SameDay.
		out.SameDay = true
		return out, nil
	}

	out.AnnualizedReturn = pct.
		Mul(decimal.NewFromInt(DaysPerYear)).
		Div(decimal.NewFromInt(int64(daysHeld))).
		Round(2)
	return out, nil
}

// daysBetween counts whole calendar days from a to b with no time-zone
// component.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
