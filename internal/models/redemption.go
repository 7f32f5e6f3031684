package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Redemption records the event of a prior owner reclaiming a redeemed
// Investment. Created at most once per Investment, and only while the
// Investment is active (creation transitions it to redeemed).
//
// Invariants: RedemptionAmount = total investment + PenaltyAmount;
// PenaltyAmount = total investment * PenaltyPercentage, rounded half-up to
// the cent.
type Redemption struct {
	CreatedAt           time.Time       `json:"createdAt"`
	RedemptionDate      time.Time       `json:"redemptionDate"`
	RedeemerInfo        *string         `json:"redeemerInfo,omitempty"`
	PaymentMethod       *string         `json:"paymentMethod,omitempty"`
	RedemptionAmount    decimal.Decimal `json:"redemptionAmount"`
	PenaltyAmount       decimal.Decimal `json:"penaltyAmount"`
	PenaltyPercentage   decimal.Decimal `json:"penaltyPercentage"`
	CountyProcessingFee decimal.Decimal `json:"countyProcessingFee"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	AnnualizedReturn    decimal.Decimal `json:"annualizedReturn"`
	ID                  int64           `json:"id"`
	InvestmentID        int64           `json:"investmentId"`
	DaysHeld            int             `json:"daysHeld"`
	// SameDay marks a redemption on the purchase date itself. The annualized
	// return is unbounded in that case and AnnualizedReturn must be ignored.
	SameDay bool `json:"sameDay"`
}
