package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProperty_RedemptionClass(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want RedemptionClass
	}{
		{"no exemptions", Property{}, RedemptionClassStandard},
		{"homestead", Property{HomesteadExemption: true}, RedemptionClassExtended},
		{"agricultural", Property{AgriculturalExemption: true}, RedemptionClassExtended},
		{"mineral rights", Property{MineralRights: true}, RedemptionClassExtended},
		// Senior exemption alone does not extend the redemption period.
		{"senior only", Property{SeniorExemption: true}, RedemptionClassStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prop.RedemptionClass())
		})
	}
}

func TestProperty_RedemptionPeriodMonths(t *testing.T) {
	assert.Equal(t, 6, (&Property{}).RedemptionPeriodMonths())
	assert.Equal(t, 24, (&Property{HomesteadExemption: true}).RedemptionPeriodMonths())
}

func TestValidInvestmentTransition(t *testing.T) {
	allowed := [][2]string{
		{InvestmentStatusActive, InvestmentStatusRedeemed},
		{InvestmentStatusActive, InvestmentStatusClearTitle},
		{InvestmentStatusRedeemed, InvestmentStatusSold},
		{InvestmentStatusClearTitle, InvestmentStatusSold},
	}
	for _, tr := range allowed {
		assert.True(t, ValidInvestmentTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	denied := [][2]string{
		{InvestmentStatusActive, InvestmentStatusSold},
		{InvestmentStatusRedeemed, InvestmentStatusActive},
		{InvestmentStatusSold, InvestmentStatusActive},
		{InvestmentStatusSold, InvestmentStatusRedeemed},
		{InvestmentStatusClearTitle, InvestmentStatusRedeemed},
	}
	for _, tr := range denied {
		assert.False(t, ValidInvestmentTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestValidSaleTransition(t *testing.T) {
	assert.True(t, ValidSaleTransition(SaleStatusScheduled, SaleStatusSold))
	assert.True(t, ValidSaleTransition(SaleStatusScheduled, SaleStatusStruckOff))
	assert.True(t, ValidSaleTransition(SaleStatusScheduled, SaleStatusCancelled))
	assert.False(t, ValidSaleTransition(SaleStatusSold, SaleStatusCancelled))
	assert.False(t, ValidSaleTransition(SaleStatusStruckOff, SaleStatusSold))
}

func TestTaxSale_Purchasable(t *testing.T) {
	assert.True(t, (&TaxSale{Status: SaleStatusSold}).Purchasable())
	assert.False(t, (&TaxSale{Status: SaleStatusStruckOff}).Purchasable())
	assert.False(t, (&TaxSale{Status: SaleStatusScheduled}).Purchasable())
}

func TestInvestment_DaysUntilDeadline(t *testing.T) {
	inv := &Investment{
		RedemptionDeadline: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2024, 6, 26, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, inv.DaysUntilDeadline(now))
	assert.False(t, inv.DeadlinePassed(now))

	after := time.Date(2024, 7, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, inv.DaysUntilDeadline(after))
	assert.True(t, inv.DeadlinePassed(after))
}
