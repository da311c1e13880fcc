package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoice-prize-checker-go/internal/models"
	"invoice-prize-checker-go/internal/period"
	"invoice-prize-checker-go/internal/scanner"
)

// StartScan launches a background mailbox scan for the selected period and
// its predecessor. Progress is observed via ScanStatus.
func (h *Handlers) StartScan(c *gin.Context) {
	index := 0
	if raw := c.Query("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_period",
				Message: "Invalid period index",
				Code:    http.StatusBadRequest,
			})
			return
		}
		index = parsed
	}

	list, err := h.feed.Latest(c.Request.Context(), false)
	if err != nil || len(list) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no_data",
			Message: "Winning numbers are not loaded yet",
			Code:    http.StatusBadRequest,
		})
		return
	}

	periods := period.ScanPeriods(list, index)
	if err := h.scanner.Start(periods, nil); err != nil {
		if errors.Is(err, scanner.ErrScanInProgress) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "scan_in_progress",
				Message: "A scan is already in progress",
				Code:    http.StatusConflict,
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "scan_rejected",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	response := models.ScanStartResponse{Status: "started"}
	if window := period.Resolve(periods); window != nil {
		response.Window = window.Label
	}
	c.JSON(http.StatusAccepted, response)
}

// ScanStatus reports the progress snapshot and partial or final results of
// the current or last scan.
func (h *Handlers) ScanStatus(c *gin.Context) {
	progress, report := h.scanner.Status()
	c.JSON(http.StatusOK, gin.H{
		"progress": progress,
		"report":   report,
	})
}

// CancelScan aborts a running scan; results gathered so far are kept.
func (h *Handlers) CancelScan(c *gin.Context) {
	h.scanner.Cancel()
	c.Status(http.StatusNoContent)
}
