package models

import "time"

// Alert types emitted by the system.
const (
	AlertTypeRedemptionDeadline = "redemption_deadline"
	AlertTypeAuctionReminder    = "auction_reminder"
)

// Alert is a scheduled reminder tied to an Investment. Immutable once
// created except for the sent/read flags.
type Alert struct {
	CreatedAt    time.Time  `json:"createdAt"`
	AlertDate    time.Time  `json:"alertDate"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
	AlertType    string     `json:"alertType"`
	Message      string     `json:"message"`
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	InvestmentID int64      `json:"investmentId"`
	Urgent       bool       `json:"urgent"`
	IsSent       bool       `json:"isSent"`
	IsRead       bool       `json:"isRead"`
}
