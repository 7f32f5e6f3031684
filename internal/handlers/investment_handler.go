package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mgrist/texlien/internal/errors"
	"github.com/mgrist/texlien/internal/middleware"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/redemption"
	"github.com/mgrist/texlien/internal/services"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for bare dates.
const dateLayout = "2006-01-02"

// InvestmentHandler handles investment-related HTTP requests.
type InvestmentHandler struct {
	service services.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler instance.
func NewInvestmentHandler(service services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

// CreateInvestmentRequest represents the body for recording a purchase.
type CreateInvestmentRequest struct {
	TaxSaleID        int64            `json:"tax_sale_id" binding:"required"`
	PurchaseDate     string           `json:"purchase_date" binding:"required,datetime=2006-01-02"`
	PurchaseAmount   decimal.Decimal  `json:"purchase_amount" binding:"required"`
	DeedRecordingFee *decimal.Decimal `json:"deed_recording_fee"`
	OtherCosts       *decimal.Decimal `json:"other_costs"`
	DeedType         *string          `json:"deed_type"`
}

// RedemptionRequest represents the body for recording a redemption event.
type RedemptionRequest struct {
	RedemptionDate      string           `json:"redemption_date" binding:"required,datetime=2006-01-02"`
	CountyProcessingFee *decimal.Decimal `json:"county_processing_fee"`
	RedeemerInfo        *string          `json:"redeemer_info"`
	PaymentMethod       *string          `json:"payment_method"`
}

// RedemptionResponse shapes a redemption for the wire. The annualized return
// is null for same-day redemptions, where the figure is meaningless.
type RedemptionResponse struct {
	ID                  int64            `json:"id"`
	InvestmentID        int64            `json:"investment_id"`
	RedemptionDate      string           `json:"redemption_date"`
	RedemptionAmount    decimal.Decimal  `json:"redemption_amount"`
	PenaltyAmount       decimal.Decimal  `json:"penalty_amount"`
	PenaltyPercentage   decimal.Decimal  `json:"penalty_percentage"`
	CountyProcessingFee decimal.Decimal  `json:"county_processing_fee"`
	NetProfit           decimal.Decimal  `json:"net_profit"`
	AnnualizedReturn    *decimal.Decimal `json:"annualized_return"`
	RedeemerInfo        *string          `json:"redeemer_info,omitempty"`
	PaymentMethod       *string          `json:"payment_method,omitempty"`
	DaysHeld            int              `json:"days_held"`
	SameDay             bool             `json:"same_day"`
}

func redemptionResponse(red *models.Redemption) RedemptionResponse {
	resp := RedemptionResponse{
		ID:                  red.ID,
		InvestmentID:        red.InvestmentID,
		RedemptionDate:      red.RedemptionDate.Format(dateLayout),
		RedemptionAmount:    red.RedemptionAmount,
		PenaltyAmount:       red.PenaltyAmount,
		PenaltyPercentage:   red.PenaltyPercentage,
		CountyProcessingFee: red.CountyProcessingFee,
		NetProfit:           red.NetProfit,
		RedeemerInfo:        red.RedeemerInfo,
		PaymentMethod:       red.PaymentMethod,
		DaysHeld:            red.DaysHeld,
		SameDay:             red.SameDay,
	}
	if !red.SameDay {
		ar := red.AnnualizedReturn
		resp.AnnualizedReturn = &ar
	}
	return resp
}

// requireUser extracts the authenticated user ID from the request context.
func requireUser(c *gin.Context) (int64, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierrors.ErrorResponse{
			Error: apierrors.ErrorDetail{Code: "UNAUTHORIZED", Message: "Authentication required"},
		})
		return 0, false
	}
	return claims.UserID, true
}

// Create handles POST /api/v1/investments.
func (h *InvestmentHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateInvestmentRequest
	if !bindJSON(c, &req) {
		return
	}

	purchaseDate, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid purchase_date", nil)
		return
	}

	input := services.CreateInvestmentInput{
		UserID:         userID,
		TaxSaleID:      req.TaxSaleID,
		PurchaseDate:   purchaseDate,
		PurchaseAmount: req.PurchaseAmount,
		DeedType:       req.DeedType,
	}
	if req.DeedRecordingFee != nil {
		input.DeedRecordingFee = *req.DeedRecordingFee
	}
	if req.OtherCosts != nil {
		input.OtherCosts = *req.OtherCosts
	}

	inv, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSaleNotFound):
			apierrors.NotFound(c, "Tax sale not found")
		case errors.Is(err, services.ErrSaleNotPurchasable):
			apierrors.Conflict(c, "Sale did not produce a purchasable deed", nil)
		case errors.Is(err, services.ErrNegativeAmount):
			apierrors.BadRequest(c, "Amounts must not be negative", nil)
		default:
			apierrors.InternalServerError(c, "Failed to create investment", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"investment": inv})
}

// List handles GET /api/v1/investments.
func (h *InvestmentHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	investments, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list investments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"investments": investments,
		"count":       len(investments),
	})
}

// getOwned loads the investment and verifies the caller owns it.
func (h *InvestmentHandler) getOwned(c *gin.Context) (*models.Investment, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}

	inv, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrInvestmentNotFound) {
			apierrors.NotFound(c, "Investment not found")
			return nil, false
		}
		apierrors.InternalServerError(c, "Failed to load investment", err)
		return nil, false
	}
	if inv.UserID != userID {
		// Hide the existence of other users' investments.
		apierrors.NotFound(c, "Investment not found")
		return nil, false
	}
	return inv, true
}

// Get handles GET /api/v1/investments/:id.
func (h *InvestmentHandler) Get(c *gin.Context) {
	inv, ok := h.getOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"investment": inv})
}

// Metrics handles GET /api/v1/investments/:id/metrics.
func (h *InvestmentHandler) Metrics(c *gin.Context) {
	inv, ok := h.getOwned(c)
	if !ok {
		return
	}

	metrics, err := h.service.Metrics(c.Request.Context(), inv.ID, time.Now().UTC())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to compute metrics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// Redeem handles POST /api/v1/investments/:id/redemption.
func (h *InvestmentHandler) Redeem(c *gin.Context) {
	inv, ok := h.getOwned(c)
	if !ok {
		return
	}

	var req RedemptionRequest
	if !bindJSON(c, &req) {
		return
	}

	redemptionDate, err := time.Parse(dateLayout, req.RedemptionDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid redemption_date", nil)
		return
	}

	input := services.RecordRedemptionInput{
		InvestmentID:   inv.ID,
		RedemptionDate: redemptionDate,
		RedeemerInfo:   req.RedeemerInfo,
		PaymentMethod:  req.PaymentMethod,
	}
	if req.CountyProcessingFee != nil {
		input.CountyProcessingFee = *req.CountyProcessingFee
	}

	red, err := h.service.RecordRedemption(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, redemption.ErrInvalidDate):
			apierrors.BadRequest(c, "Redemption date is before the purchase date", nil)
		case errors.Is(err, redemption.ErrPastDeadline):
			// The period lapsed: this investment belongs to the clear-title
			// workflow now.
			apierrors.Conflict(c, "Redemption period has expired", map[string]interface{}{
				"clear_title_eligible": true,
			})
		case errors.Is(err, services.ErrIllegalTransition):
			apierrors.Conflict(c, "Investment is no longer active", nil)
		case errors.Is(err, services.ErrNegativeAmount):
			apierrors.BadRequest(c, "Amounts must not be negative", nil)
		default:
			apierrors.InternalServerError(c, "Failed to record redemption", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"redemption": redemptionResponse(red)})
}

// GetRedemption handles GET /api/v1/investments/:id/redemption.
func (h *InvestmentHandler) GetRedemption(c *gin.Context) {
	inv, ok := h.getOwned(c)
	if !ok {
		return
	}

	red, err := h.service.GetRedemption(c.Request.Context(), inv.ID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load redemption", err)
		return
	}
	if red == nil {
		apierrors.NotFound(c, "Investment has no redemption")
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemption": redemptionResponse(red)})
}

// ClearTitle handles POST /api/v1/investments/:id/clear-title.
func (h *InvestmentHandler) ClearTitle(c *gin.Context) {
	inv, ok := h.getOwned(c)
	if !ok {
		return
	}

	err := h.service.MarkClearTitle(c.Request.Context(), inv.ID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeadlineNotPassed):
			apierrors.Conflict(c, "Redemption period has not expired yet", map[string]interface{}{
				"redemption_deadline": inv.RedemptionDeadline.Format(dateLayout),
			})
		case errors.Is(err, services.ErrIllegalTransition):
			apierrors.Conflict(c, "Investment is no longer active", nil)
		default:
			apierrors.InternalServerError(c, "Failed to mark clear title", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Sell handles POST /api/v1/investments/:id/sold.
func (h *InvestmentHandler) Sell(c *gin.Context) {
	inv, ok := h.getOwned(c)
	if !ok {
		return
	}

	if err := h.service.MarkSold(c.Request.Context(), inv.ID); err != nil {
		if errors.Is(err, services.ErrIllegalTransition) {
			apierrors.Conflict(c, "Only redeemed or clear-title investments can be sold", nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to mark sold", err)
		return
	}

	c.Status(http.StatusNoContent)
}
