package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mgrist/texlien/internal/errors"
	"github.com/mgrist/texlien/internal/services"
)

// PortfolioHandler handles portfolio reporting requests.
type PortfolioHandler struct {
	service services.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler instance.
func NewPortfolioHandler(service services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// Summary handles GET /api/v1/portfolio/summary.
func (h *PortfolioHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to summarize portfolio", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
