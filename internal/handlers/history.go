package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-prize-checker-go/internal/models"
)

// GetHistory returns the check history, newest first.
func (h *Handlers) GetHistory(c *gin.Context) {
	items, err := h.repo.GetHistory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch history",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	c.JSON(http.StatusOK, items)
}

// ClearHistory deletes the whole check history.
func (h *Handlers) ClearHistory(c *gin.Context) {
	if err := h.repo.ClearHistory(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to clear history",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Status(http.StatusNoContent)
}
