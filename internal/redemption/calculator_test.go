package redemption

import (
	"testing"
	"time"

	"github.com/mgrist/texlien/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeInvestment(total string, purchase time.Time, periodMonths int) *models.Investment {
	return &models.Investment{
		ID:                     1,
		PurchaseDate:           purchase,
		TotalInvestment:        decimal.RequireFromString(total),
		RedemptionPeriodMonths: periodMonths,
		Status:                 models.InvestmentStatusActive,
	}
}

func TestCalculate_StandardClass151Days(t *testing.T) {
	// 10,000 purchased 2024-01-01, redeemed 2024-06-01: 151 days held,
	// 25% tier, annualized 25% * 365/151.
	inv := makeInvestment("10000", date(2024, 1, 1), 6)

	out, err := Calculate(inv, date(2024, 6, 1), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, 151, out.DaysHeld)
	assert.True(t, out.PenaltyPercentage.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "2500", out.PenaltyAmount.String())
	assert.Equal(t, "12500", out.RedemptionAmount.String())
	assert.Equal(t, "60.43", out.AnnualizedReturn.String())
	assert.False(t, out.SameDay)
}

func TestCalculate_StandardClassNeverSecondTier(t *testing.T) {
	inv := makeInvestment("10000", date(2024, 1, 1), 6)

	// Day 180 is the last redeemable day for standard class, still 25%.
	out, err := Calculate(inv, inv.PurchaseDate.AddDate(0, 0, StandardPeriodDays), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, out.PenaltyPercentage.Equal(FirstYearPenaltyPct))

	// One day past the 180-day period routes to clear title.
	_, err = Calculate(inv, inv.PurchaseDate.AddDate(0, 0, StandardPeriodDays+1), decimal.Zero)
	assert.ErrorIs(t, err, ErrPastDeadline)
}

func TestCalculate_ExtendedClassTierBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		daysHeld int
		wantPct  int64
		wantErr  error
	}{
		{"day 365 stays in first tier", 365, 25, nil},
		{"day 366 enters second tier", 366, 50, nil},
		{"day 730 is last redeemable day", 730, 50, nil},
		{"day 731 is past the deadline", 731, 0, ErrPastDeadline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := makeInvestment("10000", date(2024, 1, 1), 24)
			out, err := Calculate(inv, inv.PurchaseDate.AddDate(0, 0, tt.daysHeld), decimal.Zero)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.daysHeld, out.DaysHeld)
			assert.True(t, out.PenaltyPercentage.Equal(decimal.NewFromInt(tt.wantPct)),
				"want %d%%, got %s", tt.wantPct, out.PenaltyPercentage)
		})
	}
}

func TestCalculate_ExtendedClassDay400(t *testing.T) {
	inv := makeInvestment("10000", date(2024, 1, 1), 24)

	out, err := Calculate(inv, inv.PurchaseDate.AddDate(0, 0, 400), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, out.PenaltyPercentage.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "5000", out.PenaltyAmount.String())
	assert.Equal(t, "15000", out.RedemptionAmount.String())
}

func TestCalculate_RedemptionBeforePurchase(t *testing.T) {
	inv := makeInvestment("10000", date(2024, 6, 1), 6)

	_, err := Calculate(inv, date(2024, 5, 31), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCalculate_SameDayRedemption(t *testing.T) {
	inv := makeInvestment("10000", date(2024, 1, 1), 6)

	out, err := Calculate(inv, date(2024, 1, 1), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, out.SameDay)
	assert.Equal(t, 0, out.DaysHeld)
	// AnnualizedReturn carries no meaning for same-day redemptions.
	assert.True(t, out.AnnualizedReturn.IsZero())
	assert.Equal(t, "2500", out.PenaltyAmount.String())
}

func TestCalculate_HalfUpCentRounding(t *testing.T) {
	// 100.10 * 25% = 25.025: half-up rounding must produce 25.03, not the
	// banker's-rounding 25.02.
	inv := makeInvestment("100.10", date(2024, 1, 1), 6)
	out, err := Calculate(inv, date(2024, 2, 1), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "25.03", out.PenaltyAmount.String())

	// Sub-cent input rounds only at the final step: 100.005 * 25% = 25.00125.
	inv = makeInvestment("100.005", date(2024, 1, 1), 6)
	out, err = Calculate(inv, date(2024, 2, 1), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "25", out.PenaltyAmount.String())
}

func TestCalculate_CountyProcessingFee(t *testing.T) {
	inv := makeInvestment("10000", date(2024, 1, 1), 6)

	fee := decimal.RequireFromString("75.50")
	out, err := Calculate(inv, date(2024, 6, 1), fee)
	require.NoError(t, err)

	assert.Equal(t, "2424.50", out.NetProfit.StringFixed(2))
	assert.Equal(t, "75.50", out.CountyProcessingFee.StringFixed(2))
}

func TestPeriodDays(t *testing.T) {
	assert.Equal(t, 180, PeriodDays(6))
	assert.Equal(t, 730, PeriodDays(24))
}
