package handlers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/lottery"
	"invoice-prize-checker-go/internal/models"
	"invoice-prize-checker-go/internal/period"
)

var digitsRe = regexp.MustCompile(`[^0-9]`)

// sanitizeNumber strips non-digits and caps the input at the 8 digits an
// invoice number has; without the cap a longer input could ride its last 8
// digits to a full first-prize run.
func sanitizeNumber(raw string) string {
	number := digitsRe.ReplaceAllString(raw, "")
	if len(number) > 8 {
		number = number[:8]
	}
	return number
}

// CheckNumber checks one manually entered invoice number against the two
// redeemable periods and records the check in history.
func (h *Handlers) CheckNumber(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	periods, err := h.feed.Latest(c.Request.Context(), false)
	if err != nil || len(periods) == 0 {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "no_data",
			Message: "Winning numbers are not loaded yet",
			Code:    http.StatusServiceUnavailable,
		})
		return
	}

	number := sanitizeNumber(req.Number)
	result := lottery.CheckAcrossPeriods(number, period.ScanPeriods(periods, 0))
	h.metrics.CheckCount.Inc()

	if len(number) >= 3 {
		item := models.HistoryItem{
			ID:        uuid.NewString(),
			Number:    number,
			Timestamp: time.Now().UnixMilli(),
			Result:    result,
		}
		if err := h.repo.SaveHistoryItem(item); err != nil {
			logrus.Errorf("Failed to record check in history: %v", err)
		}
	}

	c.JSON(http.StatusOK, result)
}
