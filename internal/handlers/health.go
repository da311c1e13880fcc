package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invoice-prize-checker-go/internal/models"
)

// Health reports service, database, and winning-number availability.
func (h *Handlers) Health(c *gin.Context) {
	response := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
	}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		response.Status = "degraded"
		response.Database = "unreachable"
	}

	if periods, err := h.feed.Latest(c.Request.Context(), false); err == nil {
		response.Periods = len(periods)
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
