package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mgrist/texlien/internal/errors"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/mgrist/texlien/internal/services"
)

// TaxSaleHandler handles tax sale HTTP requests.
type TaxSaleHandler struct {
	sales   repository.TaxSaleRepository
	scraper services.ScraperService
}

// NewTaxSaleHandler creates a new TaxSaleHandler instance.
func NewTaxSaleHandler(sales repository.TaxSaleRepository, scraper services.ScraperService) *TaxSaleHandler {
	return &TaxSaleHandler{sales: sales, scraper: scraper}
}

// OutcomeRequest records how a scheduled sale concluded.
type OutcomeRequest struct {
	Status string `json:"status" binding:"required,oneof=sold struck_off cancelled"`
}

// Upcoming handles GET /api/v1/tax-sales/upcoming.
func (h *TaxSaleHandler) Upcoming(c *gin.Context) {
	sales, err := h.sales.ListUpcoming(c.Request.Context(), time.Now().UTC(), 0)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list upcoming sales", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tax_sales": sales,
		"count":     len(sales),
	})
}

// Get handles GET /api/v1/tax-sales/:id.
func (h *TaxSaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sale, err := h.sales.GetByID(c.Request.Context(), id)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load tax sale", err)
		return
	}
	if sale == nil {
		apierrors.NotFound(c, "Tax sale not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tax_sale": sale})
}

// RecordOutcome handles POST /api/v1/tax-sales/:id/outcome. A scheduled sale
// moves to exactly one terminal status; terminal sales never change again.
func (h *TaxSaleHandler) RecordOutcome(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req OutcomeRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.sales.GetByID(c.Request.Context(), id)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load tax sale", err)
		return
	}
	if sale == nil {
		apierrors.NotFound(c, "Tax sale not found")
		return
	}
	if !models.ValidSaleTransition(sale.Status, req.Status) {
		apierrors.Conflict(c, "Sale already has a recorded outcome", map[string]interface{}{
			"status": sale.Status,
		})
		return
	}

	err = h.sales.UpdateStatus(c.Request.Context(), id, sale.Status, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			apierrors.Conflict(c, "Sale already has a recorded outcome", nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to record sale outcome", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Scrape handles POST /api/v1/admin/scrape: an on-demand import of the county
// sale lists, same as the scheduled job.
func (h *TaxSaleHandler) Scrape(c *gin.Context) {
	report, err := h.scraper.ImportAll(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to import sale lists", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
