package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType enumerates the property classifications tracked by the system.
const (
	PropertyTypeResidential  = "residential"
	PropertyTypeCommercial   = "commercial"
	PropertyTypeLand         = "land"
	PropertyTypeAgricultural = "agricultural"
)

// RedemptionClass determines the statutory redemption period for a property.
type RedemptionClass string

const (
	// RedemptionClassStandard gets the 180-day redemption period.
	RedemptionClassStandard RedemptionClass = "standard"
	// RedemptionClassExtended gets the 2-year (730-day) redemption period.
	// Applies to homestead, agricultural, and mineral-rights properties.
	RedemptionClassExtended RedemptionClass = "extended"
)

// Property represents a parcel under tax sale.
// All nullable fields use pointers to distinguish between zero values and NULL.
// Properties are never deleted, only deactivated.
type Property struct {
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
	ParcelNumber          string           `json:"parcelNumber"`
	OwnerName             string           `json:"ownerName"`
	Address               string           `json:"address"`
	City                  *string          `json:"city,omitempty"`
	State                 string           `json:"state"`
	ZipCode               *string          `json:"zipCode,omitempty"`
	LegalDescription      *string          `json:"legalDescription,omitempty"`
	PropertyType          *string          `json:"propertyType,omitempty"`
	AssessedValue         *decimal.Decimal `json:"assessedValue,omitempty"`
	MarketValue           *decimal.Decimal `json:"marketValue,omitempty"`
	SquareFootage         *int             `json:"squareFootage,omitempty"`
	YearBuilt             *int             `json:"yearBuilt,omitempty"`
	Latitude              *float64         `json:"latitude,omitempty"`
	Longitude             *float64         `json:"longitude,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	ID                    int64            `json:"id"`
	CountyID              int64            `json:"countyId"`
	HomesteadExemption    bool             `json:"homesteadExemption"`
	AgriculturalExemption bool             `json:"agriculturalExemption"`
	SeniorExemption       bool             `json:"seniorExemption"`
	MineralRights         bool             `json:"mineralRights"`
	Active                bool             `json:"active"`
}

// RedemptionClass derives the statutory redemption class from the exemption
// flags. Exactly one class is derivable: homestead, agricultural, or
// mineral-rights properties are extended; everything else is standard.
func (p *Property) RedemptionClass() RedemptionClass {
	if p.HomesteadExemption || p.AgriculturalExemption || p.MineralRights {
		return RedemptionClassExtended
	}
	return RedemptionClassStandard
}

// RedemptionPeriodMonths returns the redemption period length for the
// property's class: 24 months for extended, 6 months for standard.
func (p *Property) RedemptionPeriodMonths() int {
	if p.RedemptionClass() == RedemptionClassExtended {
		return 24
	}
	return 6
}
