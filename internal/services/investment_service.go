package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/redemption"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/shopspring/decimal"
)

// Service-level errors
var (
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrSaleNotFound       = errors.New("tax sale not found")
	ErrSaleNotPurchasable = errors.New("tax sale did not produce a purchasable deed")
	ErrIllegalTransition  = errors.New("illegal investment status transition")
	ErrDeadlineNotPassed  = errors.New("redemption period has not expired")
	ErrNegativeAmount     = errors.New("amount must not be negative")
)

// CreateInvestmentInput carries the fields needed to record a purchase.
// The redemption period and deadline are derived from the property, never
// supplied by the caller.
type CreateInvestmentInput struct {
	UserID           int64
	TaxSaleID        int64
	PurchaseDate     time.Time
	PurchaseAmount   decimal.Decimal
	DeedRecordingFee decimal.Decimal
	OtherCosts       decimal.Decimal
	DeedType         *string
}

// RecordRedemptionInput carries the fields needed to record a redemption
// event against an active investment.
type RecordRedemptionInput struct {
	InvestmentID        int64
	RedemptionDate      time.Time
	CountyProcessingFee decimal.Decimal
	RedeemerInfo        *string
	PaymentMethod       *string
}

// InvestmentMetrics is a point-in-time view of an active investment's
// position against the statutory clock.
type InvestmentMetrics struct {
	PotentialPenalty   decimal.Decimal `json:"potentialPenalty"`
	PotentialPayoff    decimal.Decimal `json:"potentialPayoff"`
	PenaltyPercentage  decimal.Decimal `json:"penaltyPercentage"`
	InvestmentID       int64           `json:"investmentId"`
	DaysHeld           int             `json:"daysHeld"`
	DaysRemaining      int             `json:"daysRemaining"`
	ClearTitleEligible bool            `json:"clearTitleEligible"`
}

// InvestmentService defines the interface for investment business logic.
type InvestmentService interface {
	// Create records the purchase of a sold tax sale. Returns
	// ErrSaleNotFound, ErrSaleNotPurchasable, or ErrNegativeAmount.
	Create(ctx context.Context, input CreateInvestmentInput) (*models.Investment, error)

	// GetByID returns ErrInvestmentNotFound when no investment exists.
	GetByID(ctx context.Context, id int64) (*models.Investment, error)

	// ListByUser returns all of a user's investments, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.Investment, error)

	// RecordRedemption computes the statutory payoff and transitions the
	// investment from active to redeemed. Returns redemption.ErrInvalidDate,
	// redemption.ErrPastDeadline, or ErrIllegalTransition.
	RecordRedemption(ctx context.Context, input RecordRedemptionInput) (*models.Redemption, error)

	// GetRedemption returns the recorded redemption, or nil when the
	// investment has none.
	GetRedemption(ctx context.Context, investmentID int64) (*models.Redemption, error)

	// MarkClearTitle transitions an active investment to clear_title once the
	// redemption period has lapsed. Returns ErrDeadlineNotPassed while the
	// period is still open.
	MarkClearTitle(ctx context.Context, id int64, now time.Time) error

	// MarkSold transitions a redeemed or clear-title investment to sold.
	MarkSold(ctx context.Context, id int64) error

	// Metrics computes the as-of-now position for an investment: days held,
	// days remaining, and the payoff a redemption today would produce.
	Metrics(ctx context.Context, id int64, now time.Time) (*InvestmentMetrics, error)
}

type investmentService struct {
	investments repository.InvestmentRepository
	sales       repository.TaxSaleRepository
	properties  repository.PropertyRepository
	log         *logger.Logger
}

// NewInvestmentService creates a new instance of InvestmentService.
func NewInvestmentService(
	investments repository.InvestmentRepository,
	sales repository.TaxSaleRepository,
	properties repository.PropertyRepository,
	log *logger.Logger,
) InvestmentService {
	return &investmentService{
		investments: investments,
		sales:       sales,
		properties:  properties,
		log:         log,
	}
}

func (s *investmentService) Create(ctx context.Context, input CreateInvestmentInput) (*models.Investment, error) {
	if input.PurchaseAmount.IsNegative() || input.DeedRecordingFee.IsNegative() || input.OtherCosts.IsNegative() {
		return nil, fmt.Errorf("%w: purchase amount, recording fee, and other costs", ErrNegativeAmount)
	}

	sale, err := s.sales.GetByID(ctx, input.TaxSaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax sale: %w", err)
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	if !sale.Purchasable() {
		s.log.Warn("Rejected investment against non-purchasable sale", map[string]interface{}{
			"tax_sale_id": sale.ID,
			"status":      sale.Status,
		})
		return nil, fmt.Errorf("%w: sale %d is %s", ErrSaleNotPurchasable, sale.ID, sale.Status)
	}

	prop, err := s.properties.GetByID(ctx, sale.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %d: %w", sale.PropertyID, err)
	}
	if prop == nil {
		return nil, fmt.Errorf("property %d backing sale %d not found", sale.PropertyID, sale.ID)
	}

	periodMonths := prop.RedemptionPeriodMonths()
	inv := &models.Investment{
		UserID:                 input.UserID,
		TaxSaleID:              sale.ID,
		PropertyID:             prop.ID,
		PurchaseDate:           input.PurchaseDate,
		PurchaseAmount:         input.PurchaseAmount,
		DeedRecordingFee:       input.DeedRecordingFee,
		OtherCosts:             input.OtherCosts,
		TotalInvestment:        input.PurchaseAmount.Add(input.DeedRecordingFee).Add(input.OtherCosts),
		DeedType:               input.DeedType,
		RedemptionPeriodMonths: periodMonths,
		RedemptionDeadline:     input.PurchaseDate.AddDate(0, periodMonths, 0),
		Status:                 models.InvestmentStatusActive,
	}

	id, err := s.investments.Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}
	inv.ID = id

	s.log.Info("Investment created", map[string]interface{}{
		"investment_id":    id,
		"tax_sale_id":      sale.ID,
		"property_id":      prop.ID,
		"redemption_class": string(prop.RedemptionClass()),
		"deadline":         inv.RedemptionDeadline.Format("2006-01-02"),
	})
	return inv, nil
}

func (s *investmentService) GetByID(ctx context.Context, id int64) (*models.Investment, error) {
	inv, err := s.investments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load investment: %w", err)
	}
	if inv == nil {
		return nil, ErrInvestmentNotFound
	}
	return inv, nil
}

func (s *investmentService) ListByUser(ctx context.Context, userID int64) ([]models.Investment, error) {
	return s.investments.ListByUser(ctx, userID)
}

func (s *investmentService) RecordRedemption(ctx context.Context, input RecordRedemptionInput) (*models.Redemption, error) {
	if input.CountyProcessingFee.IsNegative() {
		return nil, fmt.Errorf("%w: county processing fee", ErrNegativeAmount)
	}

	inv, err := s.GetByID(ctx, input.InvestmentID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvestmentStatusActive {
		return nil, fmt.Errorf("%w: investment %d is %s", ErrIllegalTransition, inv.ID, inv.Status)
	}

	red, err := redemption.Calculate(inv, input.RedemptionDate, input.CountyProcessingFee)
	if err != nil {
		return nil, err
	}
	red.RedeemerInfo = input.RedeemerInfo
	red.PaymentMethod = input.PaymentMethod

	id, err := s.investments.CreateRedemption(ctx, red)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: %v", ErrIllegalTransition, err)
		}
		return nil, fmt.Errorf("failed to persist redemption: %w", err)
	}
	red.ID = id

	s.log.Info("Redemption recorded", map[string]interface{}{
		"investment_id":      inv.ID,
		"redemption_id":      id,
		"days_held":          red.DaysHeld,
		"penalty_percentage": red.PenaltyPercentage.String(),
		"redemption_amount":  red.RedemptionAmount.String(),
	})
	return red, nil
}

func (s *investmentService) GetRedemption(ctx context.Context, investmentID int64) (*models.Redemption, error) {
	red, err := s.investments.GetRedemption(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load redemption: %w", err)
	}
	return red, nil
}

func (s *investmentService) MarkClearTitle(ctx context.Context, id int64, now time.Time) error {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != models.InvestmentStatusActive {
		return fmt.Errorf("%w: investment %d is %s", ErrIllegalTransition, inv.ID, inv.Status)
	}
	if !inv.DeadlinePassed(now) {
		return fmt.Errorf("%w: %d days remain", ErrDeadlineNotPassed, inv.DaysUntilDeadline(now))
	}

	err = s.investments.UpdateStatus(ctx, id, models.InvestmentStatusActive, models.InvestmentStatusClearTitle)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
		}
		return fmt.Errorf("failed to mark clear title: %w", err)
	}

	s.log.Info("Investment marked clear title", map[string]interface{}{
		"investment_id": id,
		"deadline":      inv.RedemptionDeadline.Format("2006-01-02"),
	})
	return nil
}

func (s *investmentService) MarkSold(ctx context.Context, id int64) error {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !models.ValidInvestmentTransition(inv.Status, models.InvestmentStatusSold) {
		return fmt.Errorf("%w: investment %d is %s", ErrIllegalTransition, inv.ID, inv.Status)
	}

	err = s.investments.UpdateStatus(ctx, id, inv.Status, models.InvestmentStatusSold)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
		}
		return fmt.Errorf("failed to mark sold: %w", err)
	}

	s.log.Info("Investment marked sold", map[string]interface{}{"investment_id": id})
	return nil
}

func (s *investmentService) Metrics(ctx context.Context, id int64, now time.Time) (*InvestmentMetrics, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := &InvestmentMetrics{
		InvestmentID:  inv.ID,
		DaysHeld:      inv.DaysHeld(now),
		DaysRemaining: inv.DaysUntilDeadline(now),
	}

	// A hypothetical redemption today yields the current payoff position.
	red, err := redemption.Calculate(inv, now, decimal.Zero)
	switch {
	case err == nil:
		m.PenaltyPercentage = red.PenaltyPercentage
		m.PotentialPenalty = red.PenaltyAmount
		m.PotentialPayoff = red.RedemptionAmount
	case errors.Is(err, redemption.ErrPastDeadline):
		m.ClearTitleEligible = true
	default:
		return nil, err
	}

	return m, nil
}
