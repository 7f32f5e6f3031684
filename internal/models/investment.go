package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment status values. Status is monotonic:
// active -> {redeemed | clear_title} -> sold. No reverse transitions and
// nothing leaves sold.
const (
	InvestmentStatusActive     = "active"
	InvestmentStatusRedeemed   = "redeemed"
	InvestmentStatusClearTitle = "clear_title"
	InvestmentStatusSold       = "sold"
)

// Investment represents a user's purchase of a TaxSale outcome.
// Invariants: TotalInvestment = PurchaseAmount + DeedRecordingFee + OtherCosts;
// RedemptionDeadline = PurchaseDate + RedemptionPeriodMonths exactly.
type Investment struct {
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
	PurchaseDate           time.Time       `json:"purchaseDate"`
	RedemptionDeadline     time.Time       `json:"redemptionDeadline"`
	Status                 string          `json:"status"`
	DeedType               *string         `json:"deedType,omitempty"`
	PurchaseAmount         decimal.Decimal `json:"purchaseAmount"`
	DeedRecordingFee       decimal.Decimal `json:"deedRecordingFee"`
	OtherCosts             decimal.Decimal `json:"otherCosts"`
	TotalInvestment        decimal.Decimal `json:"totalInvestment"`
	ID                     int64           `json:"id"`
	UserID                 int64           `json:"userId"`
	TaxSaleID              int64           `json:"taxSaleId"`
	PropertyID             int64           `json:"propertyId"`
	RedemptionPeriodMonths int             `json:"redemptionPeriodMonths"`
}

// ValidInvestmentTransition reports whether a status change honors the
// monotonic lifecycle.
func ValidInvestmentTransition(from, to string) bool {
	switch from {
	case InvestmentStatusActive:
		return to == InvestmentStatusRedeemed || to == InvestmentStatusClearTitle
	case InvestmentStatusRedeemed, InvestmentStatusClearTitle:
		return to == InvestmentStatusSold
	}
	return false
}

// DaysUntilDeadline returns the whole calendar days from now until the
// redemption deadline. Negative once the deadline has passed.
func (i *Investment) DaysUntilDeadline(now time.Time) int {
	return wholeDaysBetween(now, i.RedemptionDeadline)
}

// DeadlinePassed reports whether the redemption period has lapsed as of now.
func (i *Investment) DeadlinePassed(now time.Time) bool {
	return i.DaysUntilDeadline(now) < 0
}

// DaysHeld returns the whole calendar days from the purchase date until now.
func (i *Investment) DaysHeld(now time.Time) int {
	return wholeDaysBetween(i.PurchaseDate, now)
}

// wholeDaysBetween counts calendar days from a to b, ignoring the time-of-day
// and zone components of both instants.
func wholeDaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
