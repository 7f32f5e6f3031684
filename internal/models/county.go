package models

import "time"

// County represents a Texas county whose tax sales the system tracks.
type County struct {
	CreatedAt      time.Time `json:"createdAt"`
	Name           string    `json:"name"`
	State          string    `json:"state"`
	AuctionNote    *string   `json:"auctionNote,omitempty"`
	TaxSaleListURL *string   `json:"taxSaleListUrl,omitempty"`
	ID             int64     `json:"id"`
	Active         bool      `json:"active"`
}
