package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxSale status values. A sale starts scheduled and transitions to exactly
// one terminal status.
const (
	SaleStatusScheduled = "scheduled"
	SaleStatusSold      = "sold"
	SaleStatusStruckOff = "struck_off"
	SaleStatusCancelled = "cancelled"
)

// TaxSale represents one auction event for a Property.
// Invariant: TotalJudgment >= TaxesOwed (taxes + interest + court costs + fees).
type TaxSale struct {
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	SaleDate      time.Time       `json:"saleDate"`
	Status        string          `json:"status"`
	MinimumBid    decimal.Decimal `json:"minimumBid"`
	TaxesOwed     decimal.Decimal `json:"taxesOwed"`
	TotalJudgment decimal.Decimal `json:"totalJudgment"`
	ID            int64           `json:"id"`
	PropertyID    int64           `json:"propertyId"`
	CountyID      int64           `json:"countyId"`
}

// IsTerminal reports whether the sale has reached a terminal status.
func (s *TaxSale) IsTerminal() bool {
	return s.Status != SaleStatusScheduled
}

// Purchasable reports whether the sale outcome can back an Investment.
// Struck-off sales (no buyer) and cancelled sales never produce one.
func (s *TaxSale) Purchasable() bool {
	return s.Status == SaleStatusSold
}

// ValidSaleTransition reports whether a sale status change is allowed.
// Only scheduled -> {sold, struck_off, cancelled} is legal; terminal
// statuses never transition again.
func ValidSaleTransition(from, to string) bool {
	if from != SaleStatusScheduled {
		return false
	}
	switch to {
	case SaleStatusSold, SaleStatusStruckOff, SaleStatusCancelled:
		return true
	}
	return false
}
