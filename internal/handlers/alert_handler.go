package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mgrist/texlien/internal/errors"
	"github.com/mgrist/texlien/internal/services"
)

// AlertHandler handles alert-related HTTP requests.
type AlertHandler struct {
	service services.AlertService
}

// NewAlertHandler creates a new AlertHandler instance.
func NewAlertHandler(service services.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// List handles GET /api/v1/alerts. Pass unread=true for unread alerts only.
func (h *AlertHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	alerts, err := h.service.ListForUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list alerts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// MarkRead handles POST /api/v1/alerts/:id/read.
func (h *AlertHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, services.ErrAlertNotFound) {
			apierrors.NotFound(c, "Alert not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to mark alert read", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Run handles POST /api/v1/admin/alerts/run: an on-demand evaluation and
// delivery pass, same as the scheduled job.
func (h *AlertHandler) Run(c *gin.Context) {
	created, err := h.service.EvaluateDeadlines(c.Request.Context(), time.Now().UTC())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to evaluate deadline alerts", err)
		return
	}
	if err := h.service.DeliverPending(c.Request.Context()); err != nil {
		apierrors.InternalServerError(c, "Failed to deliver alerts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts_created": created})
}
