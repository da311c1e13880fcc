package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-prize-checker-go/internal/models"
	"invoice-prize-checker-go/internal/period"
)

// GetWinningNumbers returns the cached winning-number periods, newest first,
// along with the scan window they resolve to.
func (h *Handlers) GetWinningNumbers(c *gin.Context) {
	periods, err := h.feed.Latest(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "feed_error",
			Message: "Failed to load winning numbers",
			Code:    http.StatusBadGateway,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"periods": periods,
		"window":  period.Resolve(period.ScanPeriods(periods, 0)),
	})
}

// RefreshWinningNumbers forces a fetch from the official feed, bypassing the
// cache.
func (h *Handlers) RefreshWinningNumbers(c *gin.Context) {
	periods, err := h.feed.Latest(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "feed_error",
			Message: "Failed to refresh winning numbers",
			Code:    http.StatusBadGateway,
		})
		return
	}
	h.metrics.FeedRefreshes.Inc()
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}
