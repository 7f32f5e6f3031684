package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/mgrist/texlien/internal/errors"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/mgrist/texlien/internal/services"
	"github.com/shopspring/decimal"
)

// PropertyHandler handles property-related HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// SearchRequest represents the query parameters for the property search.
type SearchRequest struct {
	City         string `form:"city"`
	PropertyType string `form:"property_type" binding:"omitempty,oneof=residential commercial land agricultural"`
	CountyID     int64  `form:"county_id"`
	MinValue     string `form:"min_value"`
	MaxValue     string `form:"max_value"`
	ActiveOnly   bool   `form:"active_only"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset       int    `form:"offset" binding:"omitempty,min=0"`
}

// CreatePropertyRequest represents the body for manual property entry.
type CreatePropertyRequest struct {
	CountyID              int64            `json:"county_id" binding:"required"`
	ParcelNumber          string           `json:"parcel_number" binding:"required"`
	OwnerName             string           `json:"owner_name" binding:"required"`
	Address               string           `json:"address" binding:"required"`
	City                  *string          `json:"city"`
	ZipCode               *string          `json:"zip_code"`
	LegalDescription      *string          `json:"legal_description"`
	PropertyType          *string          `json:"property_type" binding:"omitempty,oneof=residential commercial land agricultural"`
	AssessedValue         *decimal.Decimal `json:"assessed_value"`
	MarketValue           *decimal.Decimal `json:"market_value"`
	SquareFootage         *int             `json:"square_footage"`
	YearBuilt             *int             `json:"year_built"`
	HomesteadExemption    bool             `json:"homestead_exemption"`
	AgriculturalExemption bool             `json:"agricultural_exemption"`
	SeniorExemption       bool             `json:"senior_exemption"`
	MineralRights         bool             `json:"mineral_rights"`
	Notes                 *string          `json:"notes"`
}

// EnrichmentRequest represents the body for saving enrichment signals.
type EnrichmentRequest struct {
	ROIPercent     *decimal.Decimal `json:"roi_percent"`
	CrimeLevel     *string          `json:"crime_level" binding:"omitempty,oneof=low average high"`
	Walkability    *string          `json:"walkability" binding:"omitempty,oneof=low average high"`
	SchoolRating   *float64         `json:"school_rating" binding:"omitempty,min=0,max=10"`
	YearBuilt      *int             `json:"year_built"`
	MarketTrend    *string          `json:"market_trend" binding:"omitempty,oneof=high_growth stable_growth flat declining"`
	CapRate        *decimal.Decimal `json:"cap_rate"`
	CashOnCashRate *decimal.Decimal `json:"cash_on_cash_rate"`
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		apierrors.BadRequest(c, "Invalid id path parameter", nil)
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body and writes the error response on failure.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// Search handles GET /api/v1/properties.
func (h *PropertyHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	filter := repository.PropertySearchFilter{
		City:         req.City,
		PropertyType: req.PropertyType,
		CountyID:     req.CountyID,
		ActiveOnly:   req.ActiveOnly,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}
	var parseErr error
	if filter.MinAssessedValue, parseErr = parseOptionalDecimal(req.MinValue); parseErr != nil {
		apierrors.BadRequest(c, "Invalid min_value", nil)
		return
	}
	if filter.MaxAssessedValue, parseErr = parseOptionalDecimal(req.MaxValue); parseErr != nil {
		apierrors.BadRequest(c, "Invalid max_value", nil)
		return
	}

	properties, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search properties", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	property, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.Create(c.Request.Context(), &models.Property{
		CountyID:              req.CountyID,
		ParcelNumber:          req.ParcelNumber,
		OwnerName:             req.OwnerName,
		Address:               req.Address,
		City:                  req.City,
		State:                 "TX",
		ZipCode:               req.ZipCode,
		LegalDescription:      req.LegalDescription,
		PropertyType:          req.PropertyType,
		AssessedValue:         req.AssessedValue,
		MarketValue:           req.MarketValue,
		SquareFootage:         req.SquareFootage,
		YearBuilt:             req.YearBuilt,
		HomesteadExemption:    req.HomesteadExemption,
		AgriculturalExemption: req.AgriculturalExemption,
		SeniorExemption:       req.SeniorExemption,
		MineralRights:         req.MineralRights,
		Notes:                 req.Notes,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to create property", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// Deactivate handles DELETE /api/v1/properties/:id.
// Properties are never deleted, only marked inactive.
func (h *PropertyHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		apierrors.InternalServerError(c, "Failed to deactivate property", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveEnrichment handles PUT /api/v1/properties/:id/enrichment.
func (h *PropertyHandler) SaveEnrichment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req EnrichmentRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.service.SaveEnrichment(c.Request.Context(), id, &models.Enrichment{
		ROIPercent:     req.ROIPercent,
		CrimeLevel:     req.CrimeLevel,
		Walkability:    req.Walkability,
		SchoolRating:   req.SchoolRating,
		YearBuilt:      req.YearBuilt,
		MarketTrend:    req.MarketTrend,
		CapRate:        req.CapRate,
		CashOnCashRate: req.CashOnCashRate,
	})
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to save enrichment", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Score handles GET /api/v1/properties/:id/score.
func (h *PropertyHandler) Score(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.Score(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to score property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": result})
}

func parseOptionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
